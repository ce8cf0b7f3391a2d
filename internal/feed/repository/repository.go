package repository

import (
	"context"

	feeddomain "feedhub-backend/internal/feed/domain"
)

// PostRepository defines data access for posts
type PostRepository interface {
	// Create assigns an ID and timestamps and inserts the post
	Create(ctx context.Context, post *feeddomain.Post) error

	// FindByID returns nil, nil when the post does not exist
	FindByID(ctx context.Context, id string) (*feeddomain.Post, error)

	// FindPage returns posts newest first with the creator preloaded, plus the total count
	FindPage(ctx context.Context, offset, limit int) ([]*feeddomain.Post, int64, error)

	// Update saves title, content and image and refreshes UpdatedAt.
	// It returns false when the post no longer exists.
	Update(ctx context.Context, post *feeddomain.Post) (bool, error)

	// Delete returns false when nothing was removed
	Delete(ctx context.Context, id string) (bool, error)

	// ImageInUse reports whether any post references ref
	ImageInUse(ctx context.Context, ref string) (bool, error)

	// ImageRefs returns every image reference still in use
	ImageRefs(ctx context.Context) (map[string]struct{}, error)
}

// OwnerRepository maintains each user's owned-post list
type OwnerRepository interface {
	// FindCreator returns nil, nil when the user does not exist
	FindCreator(ctx context.Context, userID string) (*feeddomain.Creator, error)

	AppendPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
}

// Store groups the repositories that a mutation touches
type Store interface {
	Posts() PostRepository
	Owners() OwnerRepository

	// Transaction runs fn against a Store bound to one database transaction
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
