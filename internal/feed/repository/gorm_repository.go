package repository

import (
	"context"
	"errors"
	"time"

	authdomain "feedhub-backend/internal/auth/domain"
	feeddomain "feedhub-backend/internal/feed/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormStore implements Store using GORM
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GORM-based Store
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Posts() PostRepository {
	return &gormPostRepository{db: s.db}
}

func (s *gormStore) Owners() OwnerRepository {
	return &gormOwnerRepository{db: s.db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// gormPostRepository implements PostRepository using GORM
type gormPostRepository struct {
	db *gorm.DB
}

func (r *gormPostRepository) Create(ctx context.Context, post *feeddomain.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	return r.db.WithContext(ctx).Omit("Creator").Create(post).Error
}

func (r *gormPostRepository) FindByID(ctx context.Context, id string) (*feeddomain.Post, error) {
	var post feeddomain.Post
	err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *gormPostRepository) FindPage(ctx context.Context, offset, limit int) ([]*feeddomain.Post, int64, error) {
	var posts []*feeddomain.Post
	var total int64

	query := r.db.WithContext(ctx).Model(&feeddomain.Post{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).Preload("Creator").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *gormPostRepository) Update(ctx context.Context, post *feeddomain.Post) (bool, error) {
	post.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&feeddomain.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":      post.Title,
			"content":    post.Content,
			"image_url":  post.ImageURL,
			"updated_at": post.UpdatedAt,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *gormPostRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&feeddomain.Post{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *gormPostRepository) ImageInUse(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&feeddomain.Post{}).Where("image_url = ?", ref).Count(&count).Error
	return count > 0, err
}

func (r *gormPostRepository) ImageRefs(ctx context.Context) (map[string]struct{}, error) {
	var refs []string
	if err := r.db.WithContext(ctx).Model(&feeddomain.Post{}).Pluck("image_url", &refs).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		set[ref] = struct{}{}
	}
	return set, nil
}

// gormOwnerRepository implements OwnerRepository on the user_posts table
type gormOwnerRepository struct {
	db *gorm.DB
}

func (r *gormOwnerRepository) FindCreator(ctx context.Context, userID string) (*feeddomain.Creator, error) {
	var creator feeddomain.Creator
	err := r.db.WithContext(ctx).Select("id", "name").Where("id = ?", userID).First(&creator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creator, nil
}

func (r *gormOwnerRepository) AppendPost(ctx context.Context, userID, postID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(&authdomain.UserPost{UserID: userID, PostID: postID, CreatedAt: time.Now()}).Error; err != nil {
		return err
	}
	return touchUser(db, userID)
}

func (r *gormOwnerRepository) RemovePost(ctx context.Context, userID, postID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&authdomain.UserPost{}).Error; err != nil {
		return err
	}
	return touchUser(db, userID)
}

func touchUser(db *gorm.DB, userID string) error {
	return db.Model(&authdomain.User{}).Where("id = ?", userID).Update("updated_at", time.Now()).Error
}
