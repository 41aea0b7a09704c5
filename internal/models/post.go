package models

import "time"

// Post is a subtopic under a main topic.
type Post struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	MainTopicID int       `gorm:"index" json:"main_topic_id"`
	CreatedByID int       `json:"created_by_id"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	MainTopicID int    `json:"main_topic_id"`
}

// UserPostStatus records when a user last opened a post, so the post list can
// count feedback created since then.
type UserPostStatus struct {
	ID       int       `gorm:"primaryKey" json:"id"`
	PostID   int       `gorm:"index:idx_post_status,unique" json:"post_id"`
	UserID   int       `gorm:"index:idx_post_status,unique" json:"user_id"`
	LastSeen time.Time `json:"last_seen"`
}
