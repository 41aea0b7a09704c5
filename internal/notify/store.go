package notify

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/push"
)

// GormPreferences lists subscribers by scanning the preference table.
type GormPreferences struct {
	db *gorm.DB
}

func NewGormPreferences(db *gorm.DB) *GormPreferences {
	return &GormPreferences{db: db}
}

func broadColumn(kind EventKind) string {
	switch kind {
	case TopicCreated:
		return "on_topic_create"
	case PostCreated:
		return "on_post_create"
	case FeedbackCreated:
		return "on_feedback_create"
	case ReplyCreated:
		return "on_reply_create"
	}
	return ""
}

func scopedColumn(kind EventKind) string {
	switch kind {
	case PostCreated:
		return "on_my_post_create"
	case FeedbackCreated:
		return "on_my_feedback_create"
	case ReplyCreated:
		return "on_my_reply_create"
	}
	// topic creation has no "only mine" variant
	return ""
}

func (p *GormPreferences) subscribers(ctx context.Context, column string) ([]int, error) {
	if column == "" {
		return nil, nil
	}
	var ids []int
	err := p.db.WithContext(ctx).
		Model(&models.NotificationPreference{}).
		Where(column+" = ?", true).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (p *GormPreferences) BroadSubscribers(ctx context.Context, kind EventKind) ([]int, error) {
	return p.subscribers(ctx, broadColumn(kind))
}

func (p *GormPreferences) ScopedSubscribers(ctx context.Context, kind EventKind) ([]int, error) {
	return p.subscribers(ctx, scopedColumn(kind))
}

// GormParticipation answers participation queries with flat reads over the
// post, feedback and reply tables. Nothing is cached; each call re-queries.
type GormParticipation struct {
	db *gorm.DB
}

func NewGormParticipation(db *gorm.DB) *GormParticipation {
	return &GormParticipation{db: db}
}

func (p *GormParticipation) ParticipatedInTopic(ctx context.Context, topicID int, candidates []int) ([]int, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var postAuthors []int
	if err := p.db.WithContext(ctx).Model(&models.Post{}).
		Where("main_topic_id = ? AND created_by_id IN ?", topicID, candidates).
		Distinct().Pluck("created_by_id", &postAuthors).Error; err != nil {
		return nil, err
	}

	var feedbackAuthors []int
	if err := p.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("main_topic_id = ? AND created_by_id IN ?", topicID, candidates).
		Distinct().Pluck("created_by_id", &feedbackAuthors).Error; err != nil {
		return nil, err
	}

	return distinctUnion(postAuthors, feedbackAuthors), nil
}

func (p *GormParticipation) ParticipatedInPost(ctx context.Context, postID int, candidates []int) ([]int, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var postAuthors []int
	if err := p.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND created_by_id IN ?", postID, candidates).
		Distinct().Pluck("created_by_id", &postAuthors).Error; err != nil {
		return nil, err
	}

	var feedbackAuthors []int
	if err := p.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("post_id = ? AND created_by_id IN ?", postID, candidates).
		Distinct().Pluck("created_by_id", &feedbackAuthors).Error; err != nil {
		return nil, err
	}

	return distinctUnion(postAuthors, feedbackAuthors), nil
}

func (p *GormParticipation) ParticipatedInThread(ctx context.Context, feedbackID int, candidates []int) ([]int, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var feedbackAuthors []int
	if err := p.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("id = ? AND created_by_id IN ?", feedbackID, candidates).
		Distinct().Pluck("created_by_id", &feedbackAuthors).Error; err != nil {
		return nil, err
	}

	var replyAuthors []int
	if err := p.db.WithContext(ctx).Model(&models.FeedbackReply{}).
		Where("feedback_id = ? AND created_by_id IN ?", feedbackID, candidates).
		Distinct().Pluck("created_by_id", &replyAuthors).Error; err != nil {
		return nil, err
	}

	return distinctUnion(feedbackAuthors, replyAuthors), nil
}

// GormSink stores notifications and forwards each stored notification to the
// recipient's registered push targets. Push delivery is best effort; a
// delivery failure never fails the store.
type GormSink struct {
	db     *gorm.DB
	sender push.Sender
}

func NewGormSink(db *gorm.DB, sender push.Sender) *GormSink {
	return &GormSink{db: db, sender: sender}
}

func (s *GormSink) Create(ctx context.Context, recipientID int, title, body string) error {
	notification := models.Notification{
		RecipientID: recipientID,
		Title:       title,
		Body:        body,
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return err
	}

	if s.sender == nil {
		return nil
	}

	var subscriptions []models.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", recipientID).Find(&subscriptions).Error; err != nil {
		log.Printf("notify: failed to load push subscriptions for user %d: %v", recipientID, err)
		return nil
	}
	if len(subscriptions) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(subscriptions))
	for _, sub := range subscriptions {
		tokens = append(tokens, sub.DeviceToken)
	}
	if err := s.sender.Send(ctx, tokens, title, body); err != nil {
		log.Printf("notify: push delivery failed for user %d: %v", recipientID, err)
	}
	return nil
}
