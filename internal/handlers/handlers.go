package handlers

import (
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/notify"
	"github.com/auxilio/backend/internal/push"
	"github.com/auxilio/backend/internal/votes"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Topic        *TopicHandler
	Post         *PostHandler
	Feedback     *FeedbackHandler
	Reply        *ReplyHandler
	Vote         *VoteHandler
	Notification *NotificationHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	ledger := votes.NewLedger(votes.NewGormStore(db))

	var sender push.Sender = push.Noop{}
	if twilioSender := push.NewTwilioSenderFromEnv(); twilioSender != nil {
		sender = twilioSender
	}
	fanout := notify.NewFanout(
		notify.NewGormPreferences(db),
		notify.NewGormParticipation(db),
		notify.NewGormSink(db, sender),
	)

	return &Handler{
		Auth:         NewAuthHandler(db),
		Topic:        NewTopicHandler(db, fanout),
		Post:         NewPostHandler(db, ledger, fanout),
		Feedback:     NewFeedbackHandler(db, fanout),
		Reply:        NewReplyHandler(db, fanout),
		Vote:         NewVoteHandler(db, ledger),
		Notification: NewNotificationHandler(db),
	}
}
