package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
)

const (
	cacheDirMode    = 0o755
	blobFileMode    = 0o644
	tempFilePattern = ".blob-*.tmp"
)

type Store struct {
	root string
}

var _ ports.BlobCache = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fullPath, err := s.pathForKey(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("stat blob %q: %w", key, err)
}

func (s *Store) ReadJSON(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read blob %q: %w", key, domain.ErrArtifactNotFound)
		}
		return fmt.Errorf("read blob %q: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode blob %q: %w", key, err)
	}

	return nil
}

func (s *Store) WriteJSON(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode blob %q: %w", key, err)
	}

	return s.write(key, append(data, '\n'))
}

func (s *Store) WriteRaw(ctx context.Context, key string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.write(key, []byte(text))
}

func (s *Store) Glob(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.pathForKey(pattern); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(s.root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, fmt.Errorf("glob blobs %q: %w", pattern, err)
	}

	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		rel, err := filepath.Rel(s.root, match)
		if err != nil {
			return nil, fmt.Errorf("relativize blob path %q: %w", match, err)
		}
		keys = append(keys, filepath.ToSlash(rel))
	}
	sort.Strings(keys)

	return keys, nil
}

func (s *Store) Size(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fullPath, err := s.pathForKey(key)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("stat blob %q: %w", key, domain.ErrArtifactNotFound)
		}
		return 0, fmt.Errorf("stat blob %q: %w", key, err)
	}

	return info.Size(), nil
}

// ReadHead returns at most n leading bytes of the blob.
func (s *Store) ReadHead(ctx context.Context, key string, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := s.pathForKey(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open blob %q: %w", key, domain.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("open blob %q: %w", key, err)
	}
	defer f.Close()

	head := make([]byte, n)
	read, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read blob %q: %w", key, err)
	}

	return head[:read], nil
}

func (s *Store) write(key string, data []byte) error {
	fullPath, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, cacheDirMode); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp blob: %w", err)
	}

	if err := tempFile.Chmod(blobFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp blob: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp blob: %w", err)
	}

	if err := os.Rename(tempName, fullPath); err != nil {
		return fmt.Errorf("replace blob %q: %w", key, err)
	}

	cleanup = false
	return nil
}

func (s *Store) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("%w: key is empty", domain.ErrInvalidKey)
	}

	cleaned := path.Clean(filepath.ToSlash(trimmed))
	if path.IsAbs(cleaned) || filepath.IsAbs(trimmed) || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidKey, key)
	}

	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
