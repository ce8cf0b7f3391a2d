package domain

import "time"

const DefaultStatus = "I am new!"

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // Never return password in JSON
	Name      string    `json:"name" gorm:"not null"`
	Status    string    `json:"status" gorm:"default:'I am new!'"`
	Posts     []string  `json:"posts" gorm:"-"` // Loaded from user_posts
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Claims is the identity carried by a verified session token
type Claims struct {
	UserID string
	Email  string
}

// UserPost is one entry of a user's owned-post list, ordered by CreatedAt
type UserPost struct {
	UserID    string    `gorm:"primaryKey;size:36"`
	PostID    string    `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time `gorm:"index"`
}
