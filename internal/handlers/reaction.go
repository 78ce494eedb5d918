package handlers

import (
	"net/http"

	"blogreact/internal/models"
	"blogreact/internal/services"
	"blogreact/internal/utils"

	"github.com/gin-gonic/gin"
)

type createReactionRequest struct {
	BlogID string `json:"blogId" binding:"required"`
	Type   string `json:"type" binding:"required,reaction_type"`
}

type updateReactionRequest struct {
	Type string `json:"type" binding:"required,reaction_type"`
}

type ReactionHandler struct {
	reactions *services.ReactionService
}

func NewReactionHandler(reactions *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// Create POST / - react to a blog, or reactivate a removed reaction.
func (h *ReactionHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		utils.Error(c, err)
		return
	}

	var req createReactionRequest
	if err := bindJSON(c, &req, "blog ID and reaction type are required"); err != nil {
		utils.Error(c, err)
		return
	}
	blogID, err := parseBlogID(req.BlogID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	reaction, outcome, err := h.reactions.Create(c.Request.Context(), user.ID, blogID, models.ReactionType(req.Type))
	if err != nil {
		utils.Error(c, err)
		return
	}

	message := "reaction created successfully"
	if outcome == services.OutcomeReactivated {
		message = "reaction updated successfully"
	}
	utils.Success(c, http.StatusOK, reaction, message)
}

// List GET /:id - active reactions of a blog with per-type totals.
func (h *ReactionHandler) List(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		utils.Error(c, err)
		return
	}
	blogID, err := parseBlogID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	summary, err := h.reactions.List(c.Request.Context(), user.ID, blogID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, summary, "reactions fetched successfully")
}

// Update PUT /:id - change the type of the caller's reaction.
func (h *ReactionHandler) Update(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		utils.Error(c, err)
		return
	}
	blogID, err := parseBlogID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	var req updateReactionRequest
	if err := bindJSON(c, &req, "reaction type is required"); err != nil {
		utils.Error(c, err)
		return
	}

	reaction, err := h.reactions.Update(c.Request.Context(), user.ID, blogID, models.ReactionType(req.Type))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, reaction, "reaction updated successfully")
}

// Delete DELETE /:id - soft-delete the caller's reaction.
func (h *ReactionHandler) Delete(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		utils.Error(c, err)
		return
	}
	blogID, err := parseBlogID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	reaction, err := h.reactions.Delete(c.Request.Context(), user.ID, blogID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, reaction, "reaction deleted successfully")
}
