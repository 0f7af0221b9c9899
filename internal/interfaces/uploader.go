package interfaces

import "context"

// Uploader stores a blob under folder/publicID and returns its public URL.
type Uploader interface {
	UploadBytes(ctx context.Context, folder, publicID string, b []byte) (string, error)
}
