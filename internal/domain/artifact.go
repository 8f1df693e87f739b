package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	indexListDir   = "apps"
	artifactDir    = "indices"
	artifactSuffix = ".json"

	// ErrorMarkerPrefix starts every persisted download failure.
	ErrorMarkerPrefix = "ERROR: "

	// MinArtifactBytes is the size under which a candidate artifact is
	// considered empty or an error marker.
	MinArtifactBytes = 100
)

// ArtifactGlob matches every per-pair artifact in the blob cache.
var ArtifactGlob = path.Join(artifactDir, "*", "*"+artifactSuffix)

func IndexListKey(account AccountName) string {
	return path.Join(indexListDir, string(account)+artifactSuffix)
}

// ArtifactKey identifies the download result of one index for one account.
type ArtifactKey struct {
	Index   string
	Account AccountName
}

func (k ArtifactKey) String() string {
	return fmt.Sprintf("%s@%s", k.Index, k.Account)
}

// Path encodes the key as indices/<account>/<escaped index>.json so index
// names never collide with the account segment.
func (k ArtifactKey) Path() string {
	return path.Join(artifactDir, string(k.Account), url.PathEscape(k.Index)+artifactSuffix)
}

func ParseArtifactKey(key string) (ArtifactKey, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != artifactDir || !strings.HasSuffix(parts[2], artifactSuffix) {
		return ArtifactKey{}, fmt.Errorf("%w: %q is not an artifact key", ErrInvalidKey, key)
	}

	index, err := url.PathUnescape(strings.TrimSuffix(parts[2], artifactSuffix))
	if err != nil {
		return ArtifactKey{}, fmt.Errorf("%w: unescape index in %q: %v", ErrInvalidKey, key, err)
	}
	if index == "" || parts[1] == "" {
		return ArtifactKey{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidKey, key)
	}

	return ArtifactKey{Index: index, Account: AccountName(parts[1])}, nil
}

// IsErrorMarker reports whether blob content starts with the error marker
// prefix. Only the first len(ErrorMarkerPrefix) bytes are inspected.
func IsErrorMarker(head []byte) bool {
	return strings.HasPrefix(string(head), ErrorMarkerPrefix)
}

func ErrorMarker(err error) string {
	return ErrorMarkerPrefix + err.Error()
}
