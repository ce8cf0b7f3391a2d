package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix is the directory every uploaded image is stored under
const Prefix = "images"

// ObjectInfo describes one stored asset
type ObjectInfo struct {
	Ref          string
	LastModified time.Time
}

// Location says where a stored asset can be read from.
// Exactly one of Path (local file) or URL (remote redirect) is set.
type Location struct {
	Path string
	URL  string
}

// Store persists uploaded image assets
type Store interface {
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, ref string) error
	List(ctx context.Context) ([]ObjectInfo, error)
	Resolve(ctx context.Context, ref string) (Location, error)
}

// ObjectName builds a collision-free name for an upload by ownerID, keeping the original file name.
// The owner is encoded as the name's leading segment so OwnedBy can check it later.
func ObjectName(ownerID, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return path.Join(Prefix, ownerSegment(ownerID)+uuid.New().String()+"-"+base)
}

// OwnedBy reports whether ref was created by ObjectName for ownerID
func OwnedBy(ref, ownerID string) bool {
	if ownerID == "" {
		return false
	}
	return strings.HasPrefix(ref, Prefix+"/"+ownerSegment(ownerID))
}

func ownerSegment(ownerID string) string {
	owner := strings.NewReplacer("/", "", "\\", "", "_", "", ".", "").Replace(ownerID)
	if owner == "" {
		owner = "anon"
	}
	return owner + "_"
}

// CleanRef normalizes a client-supplied ref and rejects anything outside Prefix
func CleanRef(ref string) (string, bool) {
	ref = strings.ReplaceAll(ref, "\\", "/")
	ref = strings.TrimPrefix(ref, "/")
	cleaned := path.Clean(ref)
	if !strings.HasPrefix(cleaned, Prefix+"/") || strings.Contains(cleaned, "..") {
		return "", false
	}
	return cleaned, true
}
