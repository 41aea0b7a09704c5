package models

import "time"

// Notification is one outbound in-app notification instance.
type Notification struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	RecipientID int       `gorm:"index" json:"recipient_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	IsSeen      bool      `gorm:"default:false" json:"is_seen"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationPreference holds per-user subscription flags, one row per user.
//
// Each broad flag has an "only mine" variant that narrows it to activity on
// content the user participated in. Enabling a broad flag forces the paired
// only-mine flag off; the write path enforces that.
type NotificationPreference struct {
	ID     int `gorm:"primaryKey" json:"id"`
	UserID int `gorm:"unique" json:"user_id"`

	OnTopicCreate      bool `gorm:"default:false" json:"on_topic_create"`
	OnPostCreate       bool `gorm:"default:false" json:"on_post_create"`
	OnMyPostCreate     bool `gorm:"default:false" json:"on_my_post_create"`
	OnFeedbackCreate   bool `gorm:"default:false" json:"on_feedback_create"`
	OnMyFeedbackCreate bool `gorm:"default:false" json:"on_my_feedback_create"`
	OnReplyCreate      bool `gorm:"default:false" json:"on_reply_create"`
	OnMyReplyCreate    bool `gorm:"default:false" json:"on_my_reply_create"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PushSubscription maps a user to a registered push target.
type PushSubscription struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	UserID      int       `gorm:"index:idx_push_target,unique" json:"user_id"`
	DeviceToken string    `gorm:"index:idx_push_target,unique" json:"device_token"`
	CreatedAt   time.Time `json:"created_at"`
}

type UpdatePreferenceRequest struct {
	OnTopicCreate      bool `json:"on_topic_create"`
	OnPostCreate       bool `json:"on_post_create"`
	OnMyPostCreate     bool `json:"on_my_post_create"`
	OnFeedbackCreate   bool `json:"on_feedback_create"`
	OnMyFeedbackCreate bool `json:"on_my_feedback_create"`
	OnReplyCreate      bool `json:"on_reply_create"`
	OnMyReplyCreate    bool `json:"on_my_reply_create"`
}
