package cloudinary

import (
	"bytes"
	"context"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud}
}

// UploadBytes stores b as an image under folder/filename and returns its https URL.
// An existing asset with the same public id is never overwritten.
func (u *CloudinaryUploader) UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(b), uploader.UploadParams{
		Folder:       folder,
		PublicID:     filename,
		ResourceType: "image",
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", &UploadError{Message: res.Error.Message}
	}
	return res.SecureURL, nil
}

type UploadError struct {
	Message string
}

func (e *UploadError) Error() string { return "cloudinary upload: " + e.Message }
