package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auxilio/backend/internal/handlers"
	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/testutil"
)

func TestUpdateMeChangesProfileFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := handlers.NewAuthHandler(db)
	user := createUser(t, db, "profiled")

	w := performAs(t, user.ID, h.UpdateMe, http.MethodPut, "/me", map[string]string{
		"bio":    "building things",
		"avatar": "avatar.png",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "building things", updated.Bio)
	assert.Equal(t, "avatar.png", updated.Avatar)
	assert.Equal(t, "profiled", updated.Username, "empty fields leave the current value")
}

func TestUpdateMeRejectsTakenUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := handlers.NewAuthHandler(db)
	first := createUser(t, db, "taken")
	second := createUser(t, db, "renamer")

	w := performAs(t, second.ID, h.UpdateMe, http.MethodPut, "/me", map[string]string{
		"username": first.Username,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var unchanged models.User
	require.NoError(t, db.First(&unchanged, second.ID).Error)
	assert.Equal(t, "renamer", unchanged.Username)
}
