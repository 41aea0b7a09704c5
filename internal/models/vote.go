package models

import "time"

// TargetKind says what kind of entity a vote points at.
type TargetKind string

const (
	TargetPost     TargetKind = "post"
	TargetFeedback TargetKind = "feedback"
)

// Vote model - tracks one user's reaction to one target.
//
// Value is 1 (up), -1 (down) or 0 (neutral). Toggling the same vote twice
// resets the row to 0 rather than deleting it; a neutral vote is a recorded
// fact, and callers treat a missing row the same as value 0.
type Vote struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	UserID     int        `gorm:"index:idx_user_target,unique" json:"user_id"`
	TargetID   int        `gorm:"index:idx_user_target,unique" json:"target_id"`
	TargetKind TargetKind `gorm:"index:idx_user_target,unique;type:varchar(16)" json:"target_kind"`
	Value      int        `json:"value"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type VoteRequest struct {
	Vote int `json:"vote" binding:"required,oneof=-1 1"`
}
