package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/notify"
	"github.com/auxilio/backend/internal/votes"
)

type PostHandler struct {
	db     *gorm.DB
	ledger *votes.Ledger
	fanout *notify.Fanout
}

func NewPostHandler(db *gorm.DB, ledger *votes.Ledger, fanout *notify.Fanout) *PostHandler {
	return &PostHandler{db: db, ledger: ledger, fanout: fanout}
}

func (h *PostHandler) markSeen(postID, userID int) {
	status := models.UserPostStatus{
		PostID:   postID,
		UserID:   userID,
		LastSeen: time.Now().UTC(),
	}
	h.db.Where("post_id = ? AND user_id = ?", postID, userID).
		Assign(map[string]interface{}{"last_seen": status.LastSeen}).
		FirstOrCreate(&status)
}

// GetPosts returns the posts of a topic with vote tallies, the caller's own
// vote and the number of feedbacks created since the caller last opened each
func (h *PostHandler) GetPosts(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := h.db.Preload("CreatedBy").Order("created_at desc")
	if topicID := c.Query("topic"); topicID != "" {
		query = query.Where("main_topic_id = ?", topicID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	var responses []gin.H
	for _, post := range posts {
		tally, err := h.ledger.TallyFor(c.Request.Context(), userID, post.ID, models.TargetPost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count votes"})
			return
		}

		var feedbackCount int64
		h.db.Model(&models.Feedback{}).Where("post_id = ?", post.ID).Count(&feedbackCount)

		// count feedbacks created after the caller's last visit
		lastSeen := time.Time{}
		var status models.UserPostStatus
		if err := h.db.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&status).Error; err == nil {
			lastSeen = status.LastSeen
		}
		var newFeedbacks int64
		h.db.Model(&models.Feedback{}).Where("post_id = ? AND created_at > ?", post.ID, lastSeen).Count(&newFeedbacks)

		responses = append(responses, gin.H{
			"id":                  post.ID,
			"title":               post.Title,
			"description":         post.Description,
			"main_topic_id":       post.MainTopicID,
			"created_by":          post.CreatedBy,
			"is_owner":            post.CreatedByID == userID,
			"up_votes":            tally.UpVotes,
			"down_votes":          tally.DownVotes,
			"voted":               tally.Voted,
			"number_of_feedbacks": feedbackCount,
			"new_feedbacks":       newFeedbacks,
			"created_at":          post.CreatedAt,
			"updated_at":          post.UpdatedAt,
		})
	}

	if responses == nil {
		responses = []gin.H{}
	}

	c.JSON(http.StatusOK, responses)
}

// GetPost returns a single post with its feedback tree and vote state, and
// records that the caller has seen it
func (h *PostHandler) GetPost(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postID := c.Param("id")
	var post models.Post
	if err := h.db.Preload("CreatedBy").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	h.markSeen(post.ID, userID)

	tally, err := h.ledger.TallyFor(c.Request.Context(), userID, post.ID, models.TargetPost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count votes"})
		return
	}

	var feedbacks []models.Feedback
	h.db.Where("post_id = ?", post.ID).Preload("CreatedBy").Order("created_at desc").Find(&feedbacks)

	feedbackResponses := make([]gin.H, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		feedbackTally, err := h.ledger.TallyFor(c.Request.Context(), userID, feedback.ID, models.TargetFeedback)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count votes"})
			return
		}

		var replies []models.FeedbackReply
		h.db.Where("feedback_id = ?", feedback.ID).Preload("CreatedBy").Order("created_at asc").Find(&replies)

		replyResponses := make([]gin.H, 0, len(replies))
		for _, reply := range replies {
			replyResponses = append(replyResponses, gin.H{
				"id":         reply.ID,
				"body":       reply.Body,
				"created_by": reply.CreatedBy,
				"is_owner":   reply.CreatedByID == userID,
				"created_at": reply.CreatedAt,
			})
		}

		feedbackResponses = append(feedbackResponses, gin.H{
			"id":         feedback.ID,
			"body":       feedback.Body,
			"created_by": feedback.CreatedBy,
			"is_owner":   feedback.CreatedByID == userID,
			"up_votes":   feedbackTally.UpVotes,
			"down_votes": feedbackTally.DownVotes,
			"voted":      feedbackTally.Voted,
			"replies":    replyResponses,
			"created_at": feedback.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                  post.ID,
		"title":               post.Title,
		"description":         post.Description,
		"main_topic_id":       post.MainTopicID,
		"created_by":          post.CreatedBy,
		"is_owner":            post.CreatedByID == userID,
		"up_votes":            tally.UpVotes,
		"down_votes":          tally.DownVotes,
		"voted":               tally.Voted,
		"number_of_feedbacks": len(feedbackResponses),
		"feedbacks":           feedbackResponses,
		"created_at":          post.CreatedAt,
		"updated_at":          post.UpdatedAt,
	})
}

// CreatePost creates a new post under a topic (PROTECTED)
func (h *PostHandler) CreatePost(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		MainTopicID int    `json:"main_topic_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and main_topic_id are required"})
		return
	}

	var topic models.MainTopic
	if err := h.db.First(&topic, input.MainTopicID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return
	}

	post := models.Post{
		Title:       input.Title,
		Description: input.Description,
		MainTopicID: topic.ID,
		CreatedByID: authorID,
	}
	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	h.markSeen(post.ID, authorID)

	var author models.User
	h.db.First(&author, authorID)

	if err := h.fanout.NotifyOnCreate(c.Request.Context(), notify.Event{
		Kind:        notify.PostCreated,
		TopicID:     topic.ID,
		PostID:      post.ID,
		ActorID:     authorID,
		ActorName:   author.Username,
		Title:       post.Title,
		ParentTitle: topic.Title,
	}); err != nil {
		log.Printf("post %d: notification fan-out failed: %v", post.ID, err)
	}

	h.db.Preload("CreatedBy").First(&post, post.ID)
	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates an existing post (PROTECTED - requires ownership)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	currentUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := h.db.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.CreatedByID != currentUserID && !isAdmin(h.db, currentUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Description != "" {
		post.Description = input.Description
	}

	h.db.Save(&post)
	h.db.Preload("CreatedBy").First(&post, post.ID)

	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post with its feedbacks, replies and votes
// (PROTECTED - requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	currentUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.CreatedByID != currentUserID && !isAdmin(h.db, currentUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	var feedbackIDs []int
	h.db.Model(&models.Feedback{}).Where("post_id = ?", post.ID).Pluck("id", &feedbackIDs)

	// clean up the whole subtree and its votes
	h.db.Where("post_id = ?", post.ID).Delete(&models.FeedbackReply{})
	h.db.Where("post_id = ?", post.ID).Delete(&models.Feedback{})
	h.db.Where("target_kind = ? AND target_id = ?", models.TargetPost, post.ID).Delete(&models.Vote{})
	if len(feedbackIDs) > 0 {
		h.db.Where("target_kind = ? AND target_id IN ?", models.TargetFeedback, feedbackIDs).Delete(&models.Vote{})
	}
	h.db.Where("post_id = ?", post.ID).Delete(&models.UserPostStatus{})

	if err := h.db.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
