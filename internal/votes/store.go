package votes

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/auxilio/backend/internal/models"
)

// GormStore backs the ledger with the votes table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Find(ctx context.Context, userID, targetID int, kind models.TargetKind) (*models.Vote, error) {
	var vote models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_kind = ?", userID, targetID, kind).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Upsert writes the vote value in one statement keyed by the composite
// unique index, so two concurrent votes by the same user cannot race into
// duplicate rows.
func (s *GormStore) Upsert(ctx context.Context, userID, targetID int, kind models.TargetKind, value int) error {
	vote := models.Vote{
		UserID:     userID,
		TargetID:   targetID,
		TargetKind: kind,
		Value:      value,
		UpdatedAt:  time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "target_id"},
			{Name: "target_kind"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&vote).Error
}

func (s *GormStore) List(ctx context.Context, targetID int, kind models.TargetKind) ([]models.Vote, error) {
	var rows []models.Vote
	err := s.db.WithContext(ctx).
		Where("target_id = ? AND target_kind = ?", targetID, kind).
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) TargetExists(ctx context.Context, targetID int, kind models.TargetKind) (bool, error) {
	var count int64
	var err error
	switch kind {
	case models.TargetPost:
		err = s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", targetID).Count(&count).Error
	case models.TargetFeedback:
		err = s.db.WithContext(ctx).Model(&models.Feedback{}).Where("id = ?", targetID).Count(&count).Error
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
