package domain

import "time"

// Creator is the denormalized owner summary embedded in post payloads
type Creator struct {
	ID   string `json:"_id" gorm:"primaryKey"`
	Name string `json:"name"`
}

func (Creator) TableName() string {
	return "users"
}

// Post is a user-authored item with a mandatory image
type Post struct {
	ID        string    `json:"_id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ImageURL  string    `json:"imageUrl" gorm:"not null"`
	CreatorID string    `json:"-" gorm:"size:36;index;not null"`
	Creator   *Creator  `json:"creator,omitempty" gorm:"foreignKey:CreatorID;references:ID"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Action names a mutation carried by an Event
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is broadcast to connected clients after a mutation commits.
// Post holds a *Post for create/update and the post id for delete.
type Event struct {
	Action Action      `json:"action"`
	Post   interface{} `json:"post"`
}

// PostID extracts the id of the post the event is about
func (e Event) PostID() string {
	switch p := e.Post.(type) {
	case *Post:
		return p.ID
	case Post:
		return p.ID
	case string:
		return p
	default:
		return ""
	}
}
