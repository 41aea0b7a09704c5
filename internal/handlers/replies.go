package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/notify"
)

type ReplyHandler struct {
	db     *gorm.DB
	fanout *notify.Fanout
}

func NewReplyHandler(db *gorm.DB, fanout *notify.Fanout) *ReplyHandler {
	return &ReplyHandler{db: db, fanout: fanout}
}

// CreateReply creates a reply inside a feedback thread and fans
// notifications out to subscribed users (PROTECTED)
func (h *ReplyHandler) CreateReply(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Body       string `json:"body" binding:"required"`
		FeedbackID int    `json:"feedback_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body and feedback_id are required"})
		return
	}

	var feedback models.Feedback
	if err := h.db.First(&feedback, input.FeedbackID).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid feedback id"})
		return
	}

	reply := models.FeedbackReply{
		Body:        input.Body,
		FeedbackID:  feedback.ID,
		PostID:      feedback.PostID,
		CreatedByID: authorID,
	}
	if err := h.db.Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reply"})
		return
	}

	var author models.User
	h.db.First(&author, authorID)

	if err := h.fanout.NotifyOnCreate(c.Request.Context(), notify.Event{
		Kind:        notify.ReplyCreated,
		TopicID:     feedback.MainTopicID,
		PostID:      feedback.PostID,
		FeedbackID:  feedback.ID,
		ActorID:     authorID,
		ActorName:   author.Username,
		Title:       reply.Body,
		ParentTitle: feedback.Body,
	}); err != nil {
		log.Printf("reply %d: notification fan-out failed: %v", reply.ID, err)
	}

	h.db.Preload("CreatedBy").First(&reply, reply.ID)
	c.JSON(http.StatusCreated, reply)
}

// UpdateReply updates a reply (owner or admin only)
func (h *ReplyHandler) UpdateReply(c *gin.Context) {
	currentUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reply models.FeedbackReply
	if err := h.db.First(&reply, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reply not found"})
		return
	}

	if reply.CreatedByID != currentUserID && !isAdmin(h.db, currentUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own replies"})
		return
	}

	reply.Body = input.Body
	h.db.Save(&reply)
	h.db.Preload("CreatedBy").First(&reply, reply.ID)

	c.JSON(http.StatusOK, reply)
}

// DeleteReply deletes a reply (owner or admin only)
func (h *ReplyHandler) DeleteReply(c *gin.Context) {
	currentUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var reply models.FeedbackReply
	if err := h.db.First(&reply, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reply not found"})
		return
	}

	if reply.CreatedByID != currentUserID && !isAdmin(h.db, currentUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own replies"})
		return
	}

	if err := h.db.Delete(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reply"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted successfully"})
}
