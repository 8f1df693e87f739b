package ports

import "context"

// BlobCache stores JSON or raw text blobs under slash-separated keys.
// Writers own their key; there is no per-key locking.
type BlobCache interface {
	Exists(ctx context.Context, key string) (bool, error)
	ReadJSON(ctx context.Context, key string, v any) error
	WriteJSON(ctx context.Context, key string, v any) error
	WriteRaw(ctx context.Context, key string, text string) error
	Glob(ctx context.Context, pattern string) ([]string, error)
	Size(ctx context.Context, key string) (int64, error)
	ReadHead(ctx context.Context, key string, n int) ([]byte, error)
}
