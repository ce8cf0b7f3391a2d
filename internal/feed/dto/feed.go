package dto

import feeddomain "feedhub-backend/internal/feed/domain"

// PostInput is the validated text part of a create/update request
type PostInput struct {
	Title   string `json:"title" form:"title" binding:"required,min=5"`
	Content string `json:"content" form:"content" binding:"required,min=5"`
}

// PostRequest is a create/update body. Image carries a ref already stored via /post-image.
// In multipart bodies "image" may also be the file part, so it is read separately from form binding.
type PostRequest struct {
	PostInput
	Image string `json:"image" form:"-"`
}

type PostsResponse struct {
	Message    string             `json:"message"`
	Posts      []*feeddomain.Post `json:"posts"`
	TotalItems int64              `json:"totalItems"`
}

type CreatePostResponse struct {
	Message string              `json:"message"`
	Post    *feeddomain.Post    `json:"post"`
	Creator *feeddomain.Creator `json:"creator"`
}

type PostResponse struct {
	Message string           `json:"message"`
	Post    *feeddomain.Post `json:"post"`
}
