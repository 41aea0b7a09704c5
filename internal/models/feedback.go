package models

import "time"

// Feedback is a comment left on a post. MainTopicID is denormalized from the
// owning post so participation queries stay flat.
type Feedback struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Body        string    `gorm:"not null" json:"body"`
	PostID      int       `gorm:"index" json:"post_id"`
	MainTopicID int       `gorm:"index" json:"main_topic_id"`
	CreatedByID int       `json:"created_by_id"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateFeedbackRequest struct {
	Body   string `json:"body"`
	PostID int    `json:"post_id"`
}

// FeedbackReply is a reply inside a feedback thread.
type FeedbackReply struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Body        string    `gorm:"not null" json:"body"`
	FeedbackID  int       `gorm:"index" json:"feedback_id"`
	PostID      int       `gorm:"index" json:"post_id"`
	CreatedByID int       `json:"created_by_id"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateReplyRequest struct {
	Body       string `json:"body"`
	FeedbackID int    `json:"feedback_id"`
}
