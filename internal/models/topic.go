package models

import "time"

// MainTopic is the top-level discussion container. Posts (subtopics) hang off
// a main topic, feedback hangs off posts.
type MainTopic struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	CreatedByID int       `json:"created_by_id"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TopicInvitation is the membership record for a main topic. The topic
// creator gets a confirmed admin row; invited users confirm via token.
type TopicInvitation struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	MainTopicID     int       `gorm:"index:idx_topic_member,unique" json:"main_topic_id"`
	UserID          int       `gorm:"index:idx_topic_member,unique" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID" json:"user"`
	InvitationToken string    `gorm:"index" json:"-"`
	IsConfirmed     bool      `gorm:"default:false" json:"is_confirmed"`
	IsAdmin         bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateTopicRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
