package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/notify"
)

type TopicHandler struct {
	db     *gorm.DB
	fanout *notify.Fanout
}

func NewTopicHandler(db *gorm.DB, fanout *notify.Fanout) *TopicHandler {
	return &TopicHandler{db: db, fanout: fanout}
}

// CreateTopic creates a new main topic and enrolls the creator as a
// confirmed admin member
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	creatorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	topic := models.MainTopic{
		Title:       input.Title,
		Description: input.Description,
		CreatedByID: creatorID,
	}
	if err := h.db.Create(&topic).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create topic"})
		return
	}

	membership := models.TopicInvitation{
		MainTopicID: topic.ID,
		UserID:      creatorID,
		IsConfirmed: true,
		IsAdmin:     true,
	}
	if err := h.db.Create(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll creator"})
		return
	}

	var creator models.User
	h.db.First(&creator, creatorID)

	// notifications are best effort, the topic is already committed
	if err := h.fanout.NotifyOnCreate(c.Request.Context(), notify.Event{
		Kind:      notify.TopicCreated,
		TopicID:   topic.ID,
		ActorID:   creatorID,
		ActorName: creator.Username,
		Title:     topic.Title,
	}); err != nil {
		log.Printf("topic %d: notification fan-out failed: %v", topic.ID, err)
	}

	h.db.Preload("CreatedBy").First(&topic, topic.ID)
	c.JSON(http.StatusCreated, topic)
}

// GetTopics returns the caller's topics with aggregated vote and feedback
// counts across the posts inside each
func (h *TopicHandler) GetTopics(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var memberships []models.TopicInvitation
	if err := h.db.Where("user_id = ? AND is_confirmed = ?", userID, true).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch topics"})
		return
	}

	topicIDs := make([]int, 0, len(memberships))
	for _, membership := range memberships {
		topicIDs = append(topicIDs, membership.MainTopicID)
	}

	var topics []models.MainTopic
	if len(topicIDs) > 0 {
		if err := h.db.Where("id IN ?", topicIDs).Preload("CreatedBy").Order("created_at desc").Find(&topics).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch topics"})
			return
		}
	}

	var responses []gin.H
	for _, topic := range topics {
		var postIDs []int
		h.db.Model(&models.Post{}).Where("main_topic_id = ?", topic.ID).Pluck("id", &postIDs)

		var up, down, feedbackCount int64
		if len(postIDs) > 0 {
			h.db.Model(&models.Vote{}).
				Where("target_kind = ? AND target_id IN ? AND value = ?", models.TargetPost, postIDs, 1).
				Count(&up)
			h.db.Model(&models.Vote{}).
				Where("target_kind = ? AND target_id IN ? AND value = ?", models.TargetPost, postIDs, -1).
				Count(&down)
		}
		h.db.Model(&models.Feedback{}).Where("main_topic_id = ?", topic.ID).Count(&feedbackCount)

		responses = append(responses, gin.H{
			"id":                  topic.ID,
			"title":               topic.Title,
			"description":         topic.Description,
			"created_by":          topic.CreatedBy,
			"post_count":          len(postIDs),
			"up_votes":            up,
			"down_votes":          down,
			"aggregate_vote":      up - down,
			"number_of_feedbacks": feedbackCount,
			"created_at":          topic.CreatedAt,
		})
	}

	if responses == nil {
		responses = []gin.H{}
	}

	c.JSON(http.StatusOK, responses)
}

// InviteUser invites an existing user to a topic by email
func (h *TopicHandler) InviteUser(c *gin.Context) {
	inviterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	topicID := c.Param("id")

	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var topic models.MainTopic
	if err := h.db.First(&topic, topicID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return
	}

	var membership models.TopicInvitation
	if err := h.db.Where("main_topic_id = ? AND user_id = ? AND is_confirmed = ?", topic.ID, inviterID, true).First(&membership).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only topic members can invite"})
		return
	}

	var invitee models.User
	if err := h.db.Where("email = ?", input.Email).First(&invitee).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	invitation := models.TopicInvitation{
		MainTopicID:     topic.ID,
		UserID:          invitee.ID,
		InvitationToken: uuid.NewString(),
	}
	err := h.db.Where("main_topic_id = ? AND user_id = ?", topic.ID, invitee.ID).
		Assign(models.TopicInvitation{InvitationToken: invitation.InvitationToken}).
		FirstOrCreate(&invitation).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "invitation_token": invitation.InvitationToken})
}

// ConfirmInvitation confirms a topic invitation by token
func (h *TopicHandler) ConfirmInvitation(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invitation models.TopicInvitation
	if err := h.db.Where("invitation_token = ? AND user_id = ?", input.Token, userID).First(&invitation).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid invitation"})
		return
	}

	invitation.IsConfirmed = true
	if err := h.db.Save(&invitation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"main_topic_id": invitation.MainTopicID})
}

// LeaveTopic removes the caller's membership from a topic
func (h *TopicHandler) LeaveTopic(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	topicID := c.Param("id")

	if err := h.db.Where("main_topic_id = ? AND user_id = ?", topicID, userID).Delete(&models.TopicInvitation{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave topic"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true})
}
