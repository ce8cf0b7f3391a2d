package usecase

import (
	"context"

	feeddomain "feedhub-backend/internal/feed/domain"
	feeddto "feedhub-backend/internal/feed/dto"
)

// FeedUsecase defines the post mutation pipeline and feed queries
type FeedUsecase interface {
	// CreatePost stores a post for ownerID, appends it to the owner's post list
	// and broadcasts a create event
	CreatePost(ctx context.Context, ownerID string, input feeddto.PostInput, imageRef string) (*feeddomain.Post, *feeddomain.Creator, error)

	// UpdatePost replaces title, content and image of a post owned by requesterID.
	// An empty imageRef keeps the stored image. A new imageRef must be one requesterID uploaded.
	UpdatePost(ctx context.Context, requesterID, postID string, input feeddto.PostInput, imageRef string) (*feeddomain.Post, error)

	// DeletePost removes a post owned by requesterID together with its image
	DeletePost(ctx context.Context, requesterID, postID string) error

	// ListPosts returns one page of posts, newest first, and the total count
	ListPosts(ctx context.Context, page int) ([]*feeddomain.Post, int64, error)

	GetPost(ctx context.Context, postID string) (*feeddomain.Post, error)

	// DiscardImage schedules deletion of ref when requesterID uploaded it and no post uses it
	DiscardImage(ctx context.Context, requesterID, ref string)
}

// Notifier broadcasts a committed mutation to connected clients
type Notifier interface {
	Broadcast(ctx context.Context, event feeddomain.Event)
}

// AssetJanitor deletes stale assets in the background; it never reports failure to the caller
type AssetJanitor interface {
	Schedule(ref string) bool
}
