package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auxilio/backend/internal/apperr"
	"github.com/auxilio/backend/internal/models"
	"github.com/auxilio/backend/internal/votes"
)

type VoteHandler struct {
	db     *gorm.DB
	ledger *votes.Ledger
}

func NewVoteHandler(db *gorm.DB, ledger *votes.Ledger) *VoteHandler {
	return &VoteHandler{db: db, ledger: ledger}
}

func (h *VoteHandler) vote(c *gin.Context, kind models.TargetKind) {
	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid target id"})
		return
	}

	var input struct {
		Vote int `json:"vote" binding:"required,oneof=-1 1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Vote can only be 1 or -1"})
		return
	}

	tally, err := h.ledger.Vote(c.Request.Context(), voterID, targetID, kind, input.Vote)
	if err != nil {
		c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tally)
}

// VotePost records the caller's vote on a post and returns the fresh tally
func (h *VoteHandler) VotePost(c *gin.Context) {
	h.vote(c, models.TargetPost)
}

// VoteFeedback records the caller's vote on a feedback and returns the fresh tally
func (h *VoteHandler) VoteFeedback(c *gin.Context) {
	h.vote(c, models.TargetFeedback)
}
