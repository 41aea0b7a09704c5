package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/models"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))

	var count int64
	if err := h.db.Model(&models.Notification{}).Where("recipient_id = ?", userID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	query := h.db.Where("recipient_id = ?", userID).Order("created_at desc").Offset(skip)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.Notification
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count, "rows": rows})
}

// MarkSeen marks one of the caller's notifications as seen
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var notification models.Notification
	if err := h.db.Where("id = ? AND recipient_id = ?", c.Param("id"), userID).First(&notification).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown notification"})
		return
	}

	notification.IsSeen = true
	if err := h.db.Save(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true})
}

// MarkAllSeen marks every notification of the caller as seen
func (h *NotificationHandler) MarkAllSeen(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.db.Model(&models.Notification{}).Where("recipient_id = ?", userID).Update("is_seen", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true})
}

// GetConfig returns the caller's notification preference row, or an empty
// default when none has been saved yet
func (h *NotificationHandler) GetConfig(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var preference models.NotificationPreference
	if err := h.db.Where("user_id = ?", userID).First(&preference).Error; err != nil {
		preference = models.NotificationPreference{UserID: userID}
	}

	c.JSON(http.StatusOK, preference)
}

// UpdateConfig upserts the caller's notification preference row. A broad
// flag forces the paired "only mine" flag off before the row is written.
func (h *NotificationHandler) UpdateConfig(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.OnPostCreate {
		input.OnMyPostCreate = false
	}
	if input.OnFeedbackCreate {
		input.OnMyFeedbackCreate = false
	}
	if input.OnReplyCreate {
		input.OnMyReplyCreate = false
	}

	assignments := map[string]interface{}{
		"on_topic_create":       input.OnTopicCreate,
		"on_post_create":        input.OnPostCreate,
		"on_my_post_create":     input.OnMyPostCreate,
		"on_feedback_create":    input.OnFeedbackCreate,
		"on_my_feedback_create": input.OnMyFeedbackCreate,
		"on_reply_create":       input.OnReplyCreate,
		"on_my_reply_create":    input.OnMyReplyCreate,
	}

	preference := models.NotificationPreference{UserID: userID}
	if err := h.db.Where("user_id = ?", userID).Assign(assignments).FirstOrCreate(&preference).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true})
}

// Subscribe registers a push target for the caller
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		DeviceToken string `json:"device_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription := models.PushSubscription{
		UserID:      userID,
		DeviceToken: input.DeviceToken,
	}
	if err := h.db.Where("user_id = ? AND device_token = ?", userID, input.DeviceToken).FirstOrCreate(&subscription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true})
}

// Unsubscribe removes every push target of the caller
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.db.Where("user_id = ?", userID).Delete(&models.PushSubscription{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true})
}
