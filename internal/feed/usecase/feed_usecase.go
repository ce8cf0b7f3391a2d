package usecase

import (
	"context"
	"log"
	"strings"

	feeddomain "feedhub-backend/internal/feed/domain"
	feeddto "feedhub-backend/internal/feed/dto"
	"feedhub-backend/internal/feed/repository"
	"feedhub-backend/pkg/apperror"
	"feedhub-backend/pkg/storage"
)

// feedUsecase implements FeedUsecase interface
type feedUsecase struct {
	store    repository.Store
	notifier Notifier
	janitor  AssetJanitor
	pageSize int
}

// NewFeedUsecase creates a new instance of feedUsecase
func NewFeedUsecase(store repository.Store, notifier Notifier, janitor AssetJanitor, pageSize int) FeedUsecase {
	if pageSize <= 0 {
		pageSize = 2
	}
	return &feedUsecase{
		store:    store,
		notifier: notifier,
		janitor:  janitor,
		pageSize: pageSize,
	}
}

func validateInput(input *feeddto.PostInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	return apperror.ValidateStruct(input)
}

func noImage() error {
	return apperror.Validation("No image provided.", apperror.FieldError{
		Field:   "image",
		Message: "is required",
	})
}

func (u *feedUsecase) CreatePost(ctx context.Context, ownerID string, input feeddto.PostInput, imageRef string) (*feeddomain.Post, *feeddomain.Creator, error) {
	if err := validateInput(&input); err != nil {
		return nil, nil, err
	}
	if imageRef == "" {
		return nil, nil, noImage()
	}
	imageRef, err := u.checkImageRef(ctx, ownerID, imageRef)
	if err != nil {
		return nil, nil, err
	}

	post := &feeddomain.Post{
		Title:     input.Title,
		Content:   input.Content,
		ImageURL:  imageRef,
		CreatorID: ownerID,
	}

	var creator *feeddomain.Creator
	err = u.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		creator, err = tx.Owners().FindCreator(ctx, ownerID)
		if err != nil {
			return apperror.Internal("failed to load creator", err)
		}
		if creator == nil {
			return apperror.NotFound("No user found!")
		}

		if err := tx.Posts().Create(ctx, post); err != nil {
			return apperror.Internal("failed to create post", err)
		}
		if err := tx.Owners().AppendPost(ctx, ownerID, post.ID); err != nil {
			return apperror.Internal("failed to update creator", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, apperror.Internal("failed to create post", err)
	}

	post.Creator = creator
	u.notifier.Broadcast(ctx, feeddomain.Event{Action: feeddomain.ActionCreate, Post: post})

	return post, creator, nil
}

func (u *feedUsecase) UpdatePost(ctx context.Context, requesterID, postID string, input feeddto.PostInput, imageRef string) (*feeddomain.Post, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	post, err := u.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != requesterID {
		return nil, apperror.Forbidden("You are not authorized!")
	}

	if imageRef == "" {
		imageRef = post.ImageURL
	}
	if imageRef == "" {
		return nil, noImage()
	}
	if imageRef != post.ImageURL {
		if imageRef, err = u.checkImageRef(ctx, requesterID, imageRef); err != nil {
			return nil, err
		}
	}

	oldRef := post.ImageURL
	post.Title = input.Title
	post.Content = input.Content
	post.ImageURL = imageRef
	updated, err := u.store.Posts().Update(ctx, post)
	if err != nil {
		return nil, apperror.Internal("failed to update post", err)
	}
	if !updated {
		// deleted after it was loaded
		return nil, apperror.NotFound("No such post available")
	}

	if oldRef != "" && oldRef != imageRef {
		u.clearImage(oldRef)
	}

	u.notifier.Broadcast(ctx, feeddomain.Event{Action: feeddomain.ActionUpdate, Post: post})
	return post, nil
}

func (u *feedUsecase) DeletePost(ctx context.Context, requesterID, postID string) error {
	post, err := u.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.CreatorID != requesterID {
		return apperror.Forbidden("You are not authorized!")
	}

	err = u.store.Transaction(ctx, func(tx repository.Store) error {
		deleted, err := tx.Posts().Delete(ctx, postID)
		if err != nil {
			return apperror.Internal("failed to delete post", err)
		}
		if !deleted {
			// lost a race with a concurrent delete
			return apperror.NotFound("No such post available")
		}
		if err := tx.Owners().RemovePost(ctx, post.CreatorID, postID); err != nil {
			return apperror.Internal("failed to update creator", err)
		}
		return nil
	})
	if err != nil {
		return apperror.Internal("failed to delete post", err)
	}

	u.clearImage(post.ImageURL)
	u.notifier.Broadcast(ctx, feeddomain.Event{Action: feeddomain.ActionDelete, Post: postID})
	return nil
}

func (u *feedUsecase) ListPosts(ctx context.Context, page int) ([]*feeddomain.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	posts, total, err := u.store.Posts().FindPage(ctx, (page-1)*u.pageSize, u.pageSize)
	if err != nil {
		return nil, 0, apperror.Internal("failed to fetch posts", err)
	}
	if posts == nil {
		posts = []*feeddomain.Post{}
	}
	return posts, total, nil
}

func (u *feedUsecase) GetPost(ctx context.Context, postID string) (*feeddomain.Post, error) {
	return u.loadPost(ctx, postID)
}

func (u *feedUsecase) DiscardImage(ctx context.Context, requesterID, ref string) {
	cleaned, ok := storage.CleanRef(ref)
	if !ok {
		log.Printf("[FeedUsecase] Ignoring discard of invalid ref %q", ref)
		return
	}
	if !storage.OwnedBy(cleaned, requesterID) {
		log.Printf("[FeedUsecase] Ignoring discard of %s by non-uploader %s", cleaned, requesterID)
		return
	}

	inUse, err := u.store.Posts().ImageInUse(ctx, cleaned)
	if err != nil {
		log.Printf("[FeedUsecase] Could not check usage of %s: %v", cleaned, err)
		return
	}
	if inUse {
		return
	}
	u.clearImage(cleaned)
}

// checkImageRef accepts only an asset uploaded by ownerID that no post references yet
func (u *feedUsecase) checkImageRef(ctx context.Context, ownerID, ref string) (string, error) {
	cleaned, ok := storage.CleanRef(ref)
	if !ok || !storage.OwnedBy(cleaned, ownerID) {
		return "", apperror.Validation("Invalid image reference.", apperror.FieldError{
			Field:   "image",
			Message: "must reference an uploaded image",
		})
	}

	inUse, err := u.store.Posts().ImageInUse(ctx, cleaned)
	if err != nil {
		return "", apperror.Internal("failed to check image", err)
	}
	if inUse {
		return "", apperror.Validation("Invalid image reference.", apperror.FieldError{
			Field:   "image",
			Message: "is already used by another post",
		})
	}
	return cleaned, nil
}

func (u *feedUsecase) loadPost(ctx context.Context, postID string) (*feeddomain.Post, error) {
	post, err := u.store.Posts().FindByID(ctx, postID)
	if err != nil {
		return nil, apperror.Internal("failed to load post", err)
	}
	if post == nil {
		return nil, apperror.NotFound("No such post available")
	}
	return post, nil
}

// clearImage hands ref to the janitor; the outcome never reaches the caller
func (u *feedUsecase) clearImage(ref string) {
	if !u.janitor.Schedule(ref) {
		log.Printf("[FeedUsecase] Could not schedule deletion of %s", ref)
	}
}
