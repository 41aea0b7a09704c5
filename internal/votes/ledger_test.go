package votes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auxilio/backend/internal/apperr"
	"github.com/auxilio/backend/internal/models"
)

type fakeStore struct {
	votes      map[string]*models.Vote
	targets    map[string]bool
	failUpsert bool
	failList   bool
}

func newFakeStore(targets ...string) *fakeStore {
	s := &fakeStore{
		votes:   make(map[string]*models.Vote),
		targets: make(map[string]bool),
	}
	for _, target := range targets {
		s.targets[target] = true
	}
	return s
}

func voteKey(userID, targetID int, kind models.TargetKind) string {
	return fmt.Sprintf("%d/%d/%s", userID, targetID, kind)
}

func targetKey(targetID int, kind models.TargetKind) string {
	return fmt.Sprintf("%d/%s", targetID, kind)
}

func (s *fakeStore) Find(ctx context.Context, userID, targetID int, kind models.TargetKind) (*models.Vote, error) {
	vote, ok := s.votes[voteKey(userID, targetID, kind)]
	if !ok {
		return nil, nil
	}
	copied := *vote
	return &copied, nil
}

func (s *fakeStore) Upsert(ctx context.Context, userID, targetID int, kind models.TargetKind, value int) error {
	if s.failUpsert {
		return errors.New("storage down")
	}
	s.votes[voteKey(userID, targetID, kind)] = &models.Vote{
		UserID:     userID,
		TargetID:   targetID,
		TargetKind: kind,
		Value:      value,
	}
	return nil
}

func (s *fakeStore) List(ctx context.Context, targetID int, kind models.TargetKind) ([]models.Vote, error) {
	if s.failList {
		return nil, errors.New("storage down")
	}
	var rows []models.Vote
	for _, vote := range s.votes {
		if vote.TargetID == targetID && vote.TargetKind == kind {
			rows = append(rows, *vote)
		}
	}
	return rows, nil
}

func (s *fakeStore) TargetExists(ctx context.Context, targetID int, kind models.TargetKind) (bool, error) {
	return s.targets[targetKey(targetID, kind)], nil
}

func TestVoteCreatesFirstVote(t *testing.T) {
	store := newFakeStore("1/post")
	ledger := NewLedger(store)

	tally, err := ledger.Vote(context.Background(), 10, 1, models.TargetPost, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, tally.UpVotes)
	assert.Equal(t, 0, tally.DownVotes)
	assert.Equal(t, 1, tally.Voted)
}

func TestVoteToggleResetsToNeutral(t *testing.T) {
	store := newFakeStore("1/post")
	ledger := NewLedger(store)
	ctx := context.Background()

	_, err := ledger.Vote(ctx, 10, 1, models.TargetPost, 1)
	require.NoError(t, err)

	tally, err := ledger.Vote(ctx, 10, 1, models.TargetPost, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, tally.UpVotes)
	assert.Equal(t, 0, tally.DownVotes)
	assert.Equal(t, 0, tally.Voted)

	// the neutral vote stays on record as a zero-value row
	row, err := store.Find(ctx, 10, 1, models.TargetPost)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 0, row.Value)
}

func TestVoteFlipMovesCountAcross(t *testing.T) {
	store := newFakeStore("1/feedback")
	ledger := NewLedger(store)
	ctx := context.Background()

	_, err := ledger.Vote(ctx, 10, 1, models.TargetFeedback, 1)
	require.NoError(t, err)

	tally, err := ledger.Vote(ctx, 10, 1, models.TargetFeedback, -1)
	require.NoError(t, err)

	assert.Equal(t, 0, tally.UpVotes)
	assert.Equal(t, 1, tally.DownVotes)
	assert.Equal(t, -1, tally.Voted)
}

func TestVoteTallyCountsEveryVoter(t *testing.T) {
	store := newFakeStore("1/post")
	ledger := NewLedger(store)
	ctx := context.Background()

	_, err := ledger.Vote(ctx, 10, 1, models.TargetPost, 1)
	require.NoError(t, err)
	_, err = ledger.Vote(ctx, 11, 1, models.TargetPost, 1)
	require.NoError(t, err)
	_, err = ledger.Vote(ctx, 12, 1, models.TargetPost, -1)
	require.NoError(t, err)

	tally, err := ledger.Vote(ctx, 13, 1, models.TargetPost, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, tally.UpVotes)
	assert.Equal(t, 1, tally.DownVotes)
	assert.Equal(t, 1, tally.Voted)
}

func TestVoteRejectsInvalidDirection(t *testing.T) {
	ledger := NewLedger(newFakeStore("1/post"))

	for _, direction := range []int{0, 2, -2, 100} {
		_, err := ledger.Vote(context.Background(), 10, 1, models.TargetPost, direction)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, apperr.StatusOf(err))
	}
}

func TestVoteRejectsMissingCaller(t *testing.T) {
	ledger := NewLedger(newFakeStore("1/post"))

	_, err := ledger.Vote(context.Background(), 0, 1, models.TargetPost, 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
}

func TestVoteUnknownTargetCreatesNothing(t *testing.T) {
	store := newFakeStore()
	ledger := NewLedger(store)

	_, err := ledger.Vote(context.Background(), 10, 99, models.TargetFeedback, 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
	assert.Empty(t, store.votes)
}

func TestVoteUpsertFailureLeavesPriorState(t *testing.T) {
	store := newFakeStore("1/post")
	ledger := NewLedger(store)
	ctx := context.Background()

	_, err := ledger.Vote(ctx, 10, 1, models.TargetPost, 1)
	require.NoError(t, err)

	store.failUpsert = true
	_, err = ledger.Vote(ctx, 10, 1, models.TargetPost, -1)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(err))

	row, findErr := store.Find(ctx, 10, 1, models.TargetPost)
	require.NoError(t, findErr)
	require.NotNil(t, row)
	assert.Equal(t, 1, row.Value)
}
