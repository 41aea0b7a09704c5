// Package votes maintains per-target vote tallies with toggle semantics.
package votes

import (
	"context"
	"fmt"

	"github.com/auxilio/backend/internal/apperr"
	"github.com/auxilio/backend/internal/models"
)

// Tally is the recomputed state of a target after a vote.
type Tally struct {
	UpVotes   int `json:"up_votes"`
	DownVotes int `json:"down_votes"`
	Voted     int `json:"voted"`
}

// Store is the persistence collaborator for the ledger. Find returns
// (nil, nil) when no row exists; Upsert must be atomic on the
// (user, target, kind) unique constraint.
type Store interface {
	Find(ctx context.Context, userID, targetID int, kind models.TargetKind) (*models.Vote, error)
	Upsert(ctx context.Context, userID, targetID int, kind models.TargetKind, value int) error
	List(ctx context.Context, targetID int, kind models.TargetKind) ([]models.Vote, error)
	TargetExists(ctx context.Context, targetID int, kind models.TargetKind) (bool, error)
}

type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Vote saves a user's reaction to a target and returns the fresh tally.
//
// Up vote is 1, down vote is -1, neutral is 0. Doubling the same reaction
// resets it to neutral: up + up => neutral, and the same for down. An
// opposite reaction flips the stored value. Voting never triggers
// notifications.
func (l *Ledger) Vote(ctx context.Context, userID, targetID int, kind models.TargetKind, direction int) (Tally, error) {
	if direction != 1 && direction != -1 {
		return Tally{}, apperr.InvalidArgument("Vote can only be 1 or -1")
	}
	if userID == 0 {
		return Tally{}, apperr.Unauthenticated("Forbidden User")
	}

	exists, err := l.store.TargetExists(ctx, targetID, kind)
	if err != nil {
		return Tally{}, apperr.Internal("Failed to check target")
	}
	if !exists {
		return Tally{}, apperr.NotFound(fmt.Sprintf("%s does not exist", kind))
	}

	existing, err := l.store.Find(ctx, userID, targetID, kind)
	if err != nil {
		return Tally{}, apperr.Internal("Failed to read existing vote")
	}

	newValue := direction
	if existing != nil && existing.Value == direction {
		newValue = 0
	}

	if err := l.store.Upsert(ctx, userID, targetID, kind, newValue); err != nil {
		return Tally{}, apperr.Internal("Failed to save vote")
	}

	return l.tally(ctx, userID, targetID, kind)
}

func (l *Ledger) tally(ctx context.Context, userID, targetID int, kind models.TargetKind) (Tally, error) {
	rows, err := l.store.List(ctx, targetID, kind)
	if err != nil {
		return Tally{}, apperr.Internal("Failed to count votes")
	}

	var result Tally
	for _, row := range rows {
		switch row.Value {
		case 1:
			result.UpVotes++
		case -1:
			result.DownVotes++
		}
	}

	// re-read the caller's own row so the returned state is read-your-writes
	own, err := l.store.Find(ctx, userID, targetID, kind)
	if err != nil {
		return Tally{}, apperr.Internal("Failed to read own vote")
	}
	if own != nil {
		result.Voted = own.Value
	}
	return result, nil
}

// TallyFor recomputes the tally for a target without casting a vote, for
// read paths that attach counts and the caller's voted status.
func (l *Ledger) TallyFor(ctx context.Context, userID, targetID int, kind models.TargetKind) (Tally, error) {
	return l.tally(ctx, userID, targetID, kind)
}
