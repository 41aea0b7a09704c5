package votes_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/testutil"
	"github.com/auxilio/backend/internal/votes"
)

func seedPost(t *testing.T, db *gorm.DB) models.Post {
	t.Helper()

	author := models.User{Username: "author", Email: "author@example.com", Password: "x"}
	require.NoError(t, db.Create(&author).Error)

	topic := models.MainTopic{Title: "Topic", CreatedByID: author.ID}
	require.NoError(t, db.Create(&topic).Error)

	post := models.Post{Title: "Subtopic", MainTopicID: topic.ID, CreatedByID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	return post
}

func seedVoter(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestGormStoreUpsertKeepsOneRowPerVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := votes.NewGormStore(db)
	ctx := context.Background()

	post := seedPost(t, db)
	voter := seedVoter(t, db, "alice")

	require.NoError(t, store.Upsert(ctx, voter.ID, post.ID, models.TargetPost, 1))
	require.NoError(t, store.Upsert(ctx, voter.ID, post.ID, models.TargetPost, -1))
	require.NoError(t, store.Upsert(ctx, voter.ID, post.ID, models.TargetPost, 0))

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).
		Where("user_id = ? AND target_id = ? AND target_kind = ?", voter.ID, post.ID, models.TargetPost).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	row, err := store.Find(ctx, voter.ID, post.ID, models.TargetPost)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 0, row.Value)
}

func TestLedgerToggleKeepsNeutralRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := votes.NewLedger(votes.NewGormStore(db))
	ctx := context.Background()

	post := seedPost(t, db)
	voter := seedVoter(t, db, "bob")

	_, err := ledger.Vote(ctx, voter.ID, post.ID, models.TargetPost, 1)
	require.NoError(t, err)

	tally, err := ledger.Vote(ctx, voter.ID, post.ID, models.TargetPost, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, tally.UpVotes)
	assert.Equal(t, 0, tally.Voted)

	// the row is still there, recorded as neutral
	var vote models.Vote
	require.NoError(t, db.Where("user_id = ? AND target_id = ?", voter.ID, post.ID).First(&vote).Error)
	assert.Equal(t, 0, vote.Value)
}

func TestConcurrentVotesAreNotLost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := votes.NewLedger(votes.NewGormStore(db))
	ctx := context.Background()

	post := seedPost(t, db)

	voters := []models.User{
		seedVoter(t, db, "carol"),
		seedVoter(t, db, "dave"),
		seedVoter(t, db, "erin"),
		seedVoter(t, db, "frank"),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(voters))
	for i, voter := range voters {
		wg.Add(1)
		go func(i, voterID int) {
			defer wg.Done()
			_, errs[i] = ledger.Vote(ctx, voterID, post.ID, models.TargetPost, 1)
		}(i, voter.ID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	tally, err := ledger.TallyFor(ctx, voters[0].ID, post.ID, models.TargetPost)
	require.NoError(t, err)
	assert.Equal(t, len(voters), tally.UpVotes)
	assert.Equal(t, 0, tally.DownVotes)
}

func TestVoteOnMissingFeedbackCreatesNoRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := votes.NewLedger(votes.NewGormStore(db))

	voter := seedVoter(t, db, "grace")

	_, err := ledger.Vote(context.Background(), voter.ID, 12345, models.TargetFeedback, 1)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
