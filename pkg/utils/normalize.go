package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image format (jpeg/png/webp)")

// NormalizeToJPG decodes jpeg/png/webp, applies the EXIF orientation, shrinks to
// maxWidth when wider (0 keeps the size) and re-encodes as JPEG. Re-encoding also
// drops any metadata the upload carried.
func NormalizeToJPG(input []byte, maxWidth int, quality int) ([]byte, error) {
	if len(input) == 0 {
		return nil, errors.New("empty image")
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	img, err := decode(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}

	img = applyOrientation(img, readEXIFOrientation(bytes.NewReader(input)))
	if maxWidth > 0 {
		img = resizeMaxWidth(img, maxWidth)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func decode(r *bytes.Reader) (image.Image, error) {
	decoders := []func(io.Reader) (image.Image, error){jpeg.Decode, png.Decode, webp.Decode}
	for _, dec := range decoders {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if img, err := dec(r); err == nil {
			return img, nil
		}
	}
	return nil, ErrUnsupportedImage
}

func readEXIFOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	ori, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return ori
}

// EXIF orientation:
// 2 flip h, 3 rotate 180, 4 flip v, 5 transpose, 6 rotate 90 cw, 7 transverse, 8 rotate 90 ccw
func applyOrientation(src image.Image, ori int) image.Image {
	switch ori {
	case 2:
		return flipHorizontal(src)
	case 3:
		return rotate180(src)
	case 4:
		return flipVertical(src)
	case 5:
		return rotate90CW(flipHorizontal(src))
	case 6:
		return rotate90CW(src)
	case 7:
		return rotate90CCW(flipHorizontal(src))
	case 8:
		return rotate90CCW(src)
	default:
		return src
	}
}

func resizeMaxWidth(src image.Image, maxW int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || w <= maxW {
		return src
	}

	newH := int(math.Round(float64(h) * float64(maxW) / float64(w)))
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// remap copies src into a w x h canvas, placing source pixel (x, y) at to(x, y).
func remap(src image.Image, w, h int, to func(x, y int) (int, int)) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dx, dy := to(x, y)
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func rotate90CW(src image.Image) image.Image {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	return remap(src, h, w, func(x, y int) (int, int) { return h - 1 - y, x })
}

func rotate90CCW(src image.Image) image.Image {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	return remap(src, h, w, func(x, y int) (int, int) { return y, w - 1 - x })
}

func rotate180(src image.Image) image.Image {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	return remap(src, w, h, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y })
}

func flipHorizontal(src image.Image) image.Image {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	return remap(src, w, h, func(x, y int) (int, int) { return w - 1 - x, y })
}

func flipVertical(src image.Image) image.Image {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	return remap(src, w, h, func(x, y int) (int, int) { return x, h - 1 - y })
}
