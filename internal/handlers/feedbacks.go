package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/notify"
)

type FeedbackHandler struct {
	db     *gorm.DB
	fanout *notify.Fanout
}

func NewFeedbackHandler(db *gorm.DB, fanout *notify.Fanout) *FeedbackHandler {
	return &FeedbackHandler{db: db, fanout: fanout}
}

// CreateFeedback creates a new feedback on a post and fans notifications out
// to subscribed users (PROTECTED)
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Body   string `json:"body" binding:"required"`
		PostID int    `json:"post_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body and post_id are required"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, input.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	feedback := models.Feedback{
		Body:        input.Body,
		PostID:      post.ID,
		MainTopicID: post.MainTopicID,
		CreatedByID: authorID,
	}
	if err := h.db.Create(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create feedback"})
		return
	}

	var author models.User
	h.db.First(&author, authorID)

	if err := h.fanout.NotifyOnCreate(c.Request.Context(), notify.Event{
		Kind:        notify.FeedbackCreated,
		TopicID:     post.MainTopicID,
		PostID:      post.ID,
		FeedbackID:  feedback.ID,
		ActorID:     authorID,
		ActorName:   author.Username,
		Title:       feedback.Body,
		ParentTitle: post.Title,
	}); err != nil {
		log.Printf("feedback %d: notification fan-out failed: %v", feedback.ID, err)
	}

	h.db.Preload("CreatedBy").First(&feedback, feedback.ID)
	c.JSON(http.StatusCreated, feedback)
}

// UpdateFeedback updates a feedback (owner or admin only)
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
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

	var feedback models.Feedback
	if err := h.db.First(&feedback, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	if feedback.CreatedByID != currentUserID && !isAdmin(h.db, currentUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own feedback"})
		return
	}

	feedback.Body = input.Body
	h.db.Save(&feedback)
	h.db.Preload("CreatedBy").First(&feedback, feedback.ID)

	c.JSON(http.StatusOK, feedback)
}

// DeleteFeedback deletes a feedback with its replies and votes (owner or
// admin only)
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	currentUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var feedback models.Feedback
	if err := h.db.First(&feedback, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	if feedback.CreatedByID != currentUserID && !isAdmin(h.db, currentUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own feedback"})
		return
	}

	h.db.Where("feedback_id = ?", feedback.ID).Delete(&models.FeedbackReply{})
	h.db.Where("target_kind = ? AND target_id = ?", models.TargetFeedback, feedback.ID).Delete(&models.Vote{})

	if err := h.db.Delete(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted successfully"})
}
