package handlers

import (
	"errors"
	"strings"

	"blogreact/internal/errs"
	"blogreact/internal/middleware"
	"blogreact/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("reaction_type", func(fl validator.FieldLevel) bool {
			return models.ReactionType(fl.Field().String()).Valid()
		})
	}
}

// bindJSON binds the body into req. requiredMsg is returned when a required
// field is missing or the body cannot be read.
func bindJSON(c *gin.Context, req any, requiredMsg string) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "reaction_type" {
				return errs.BadRequest("invalid reaction type")
			}
		}
	}
	return errs.Wrap(errs.KindBadRequest, requiredMsg, err)
}

func parseBlogID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, errs.BadRequest("blog ID is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.Wrap(errs.KindBadRequest, "invalid blog ID", err)
	}
	return id, nil
}

func currentUser(c *gin.Context) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, errs.Unauthorized("unauthorized request")
	}
	return user, nil
}
