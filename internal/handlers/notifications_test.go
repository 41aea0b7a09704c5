package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/handlers"
	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/testutil"
)

func performAs(t *testing.T, userID int, handler gin.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", userID)

	handler(c)
	return w
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestUpdateConfigBroadFlagWinsOverOnlyMine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := handlers.NewNotificationHandler(db)
	user := createUser(t, db, "prefuser")

	w := performAs(t, user.ID, h.UpdateConfig, http.MethodPatch, "/notifications/config", models.UpdatePreferenceRequest{
		OnFeedbackCreate:   true,
		OnMyFeedbackCreate: true,
		OnMyReplyCreate:    true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var pref models.NotificationPreference
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&pref).Error)
	assert.True(t, pref.OnFeedbackCreate)
	assert.False(t, pref.OnMyFeedbackCreate, "broad feedback flag forces the only-mine variant off")
	assert.True(t, pref.OnMyReplyCreate, "only-mine survives when the broad flag is off")
}

func TestUpdateConfigUpsertsSingleRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := handlers.NewNotificationHandler(db)
	user := createUser(t, db, "upserter")

	w := performAs(t, user.ID, h.UpdateConfig, http.MethodPatch, "/notifications/config", models.UpdatePreferenceRequest{
		OnTopicCreate: true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performAs(t, user.ID, h.UpdateConfig, http.MethodPatch, "/notifications/config", models.UpdatePreferenceRequest{
		OnTopicCreate:  false,
		OnMyPostCreate: true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.NotificationPreference{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var pref models.NotificationPreference
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&pref).Error)
	assert.False(t, pref.OnTopicCreate)
	assert.True(t, pref.OnMyPostCreate)
}

func TestMarkSeenScopedToRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := handlers.NewNotificationHandler(db)
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")

	notification := models.Notification{RecipientID: owner.ID, Title: "New comment", Body: "hi"}
	require.NoError(t, db.Create(&notification).Error)

	id := strconv.Itoa(notification.ID)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/notifications/"+id+"/seen", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Set("user_id", other.ID)
	h.MarkSeen(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "someone else's notification reads as unknown")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/notifications/"+id+"/seen", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Set("user_id", owner.ID)
	h.MarkSeen(c)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Notification
	require.NoError(t, db.First(&updated, notification.ID).Error)
	assert.True(t, updated.IsSeen)
}
