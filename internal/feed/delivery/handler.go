package delivery

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	authdelivery "feedhub-backend/internal/auth/delivery"
	feeddto "feedhub-backend/internal/feed/dto"
	"feedhub-backend/internal/feed/usecase"
	"feedhub-backend/pkg/apperror"
	"feedhub-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// FeedHandler handles post and image HTTP requests
type FeedHandler struct {
	feedUsecase    usecase.FeedUsecase
	assets         storage.Store
	maxUploadBytes int64
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedUsecase usecase.FeedUsecase, assets storage.Store, maxUploadBytes int64) *FeedHandler {
	return &FeedHandler{
		feedUsecase:    feedUsecase,
		assets:         assets,
		maxUploadBytes: maxUploadBytes,
	}
}

// GetPosts returns one page of the feed
// GET /feed/posts?page=1
func (h *FeedHandler) GetPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	posts, total, err := h.feedUsecase.ListPosts(c.Request.Context(), page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, feeddto.PostsResponse{
		Message:    "posts Fetched successfully",
		Posts:      posts,
		TotalItems: total,
	})
}

// GetPost returns a single post
// GET /feed/post/:postId
func (h *FeedHandler) GetPost(c *gin.Context) {
	post, err := h.feedUsecase.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, feeddto.PostResponse{
		Message: "Post Fetched!",
		Post:    post,
	})
}

// CreatePost stores a new post with its image
// POST /feed/post (multipart: title, content, image)
func (h *FeedHandler) CreatePost(c *gin.Context) {
	req, err := bindPostRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	uploaded, err := h.saveUpload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	imageRef := uploaded
	if imageRef == "" {
		imageRef = req.Image
	}

	ctx := c.Request.Context()
	userID := authdelivery.UserID(c)
	post, creator, err := h.feedUsecase.CreatePost(ctx, userID, req.PostInput, imageRef)
	if err != nil {
		if uploaded != "" {
			h.feedUsecase.DiscardImage(ctx, userID, uploaded)
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, feeddto.CreatePostResponse{
		Message: "Post created successfully!",
		Post:    post,
		Creator: creator,
	})
}

// UpdatePost replaces a post's text and optionally its image
// PUT /feed/post/:postId (multipart: title, content, image file or image ref)
func (h *FeedHandler) UpdatePost(c *gin.Context) {
	req, err := bindPostRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	uploaded, err := h.saveUpload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	imageRef := uploaded
	if imageRef == "" {
		imageRef = req.Image
	}

	ctx := c.Request.Context()
	userID := authdelivery.UserID(c)
	post, err := h.feedUsecase.UpdatePost(ctx, userID, c.Param("postId"), req.PostInput, imageRef)
	if err != nil {
		if uploaded != "" {
			h.feedUsecase.DiscardImage(ctx, userID, uploaded)
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, feeddto.PostResponse{
		Message: "Post updated successfully!",
		Post:    post,
	})
}

// DeletePost removes a post and its image
// DELETE /feed/post/:postId
func (h *FeedHandler) DeletePost(c *gin.Context) {
	if err := h.feedUsecase.DeletePost(c.Request.Context(), authdelivery.UserID(c), c.Param("postId")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully!"})
}

// PostImage stores an image ahead of a create/update and discards the one it supersedes
// PUT /post-image (multipart: image, oldPath)
func (h *FeedHandler) PostImage(c *gin.Context) {
	uploaded, err := h.saveUpload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if uploaded == "" {
		c.JSON(http.StatusOK, gin.H{"message": "No file provided!"})
		return
	}

	if oldPath := c.PostForm("oldPath"); oldPath != "" {
		h.feedUsecase.DiscardImage(c.Request.Context(), authdelivery.UserID(c), oldPath)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "File uploaded",
		"filePath": uploaded,
	})
}

// ServeImage streams a stored image or redirects to its presigned URL
// GET /images/*ref
func (h *FeedHandler) ServeImage(c *gin.Context) {
	ref, ok := storage.CleanRef(storage.Prefix + c.Param("ref"))
	if !ok {
		_ = c.Error(apperror.NotFound("Image not found."))
		return
	}

	loc, err := h.assets.Resolve(c.Request.Context(), ref)
	if err != nil {
		_ = c.Error(apperror.Internal("failed to resolve image", err))
		return
	}

	if loc.URL != "" {
		c.Redirect(http.StatusFound, loc.URL)
		return
	}
	if _, err := os.Stat(loc.Path); err != nil {
		_ = c.Error(apperror.NotFound("Image not found."))
		return
	}
	c.File(loc.Path)
}

// bindPostRequest binds title and content from a JSON or form body.
// In a multipart body the image ref is a plain "image" field next to, or instead of, the file part.
func bindPostRequest(c *gin.Context) (feeddto.PostRequest, error) {
	var req feeddto.PostRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, apperror.Binding(err)
	}
	if req.Image == "" && c.ContentType() != binding.MIMEJSON {
		req.Image = c.PostForm("image")
	}
	return req, nil
}

// saveUpload stores the "image" file of a multipart request.
// A missing file or a non-image type yields an empty ref and no error.
func (h *FeedHandler) saveUpload(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", apperror.Validation("Invalid upload.")
	}

	contentType := fh.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		log.Printf("[FeedHandler] Ignoring upload %s with type %q", fh.Filename, contentType)
		return "", nil
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return "", apperror.Validation("Image too large.", apperror.FieldError{
			Field:   "image",
			Message: fmt.Sprintf("must be at most %d bytes", h.maxUploadBytes),
		})
	}

	f, err := fh.Open()
	if err != nil {
		return "", apperror.Internal("failed to read upload", err)
	}
	defer f.Close()

	ref, err := h.assets.Save(c.Request.Context(), storage.ObjectName(authdelivery.UserID(c), fh.Filename), contentType, f, fh.Size)
	if err != nil {
		return "", apperror.Internal("failed to store image", err)
	}
	return ref, nil
}
