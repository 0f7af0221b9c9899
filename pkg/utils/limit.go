package utils

import (
	"errors"
	"io"
)

var ErrTooLarge = errors.New("payload exceeds size limit")

// ReadAllLimit reads r fully, failing with ErrTooLarge once more than limit bytes
// arrive.
func ReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrTooLarge
	}
	return b, nil
}
