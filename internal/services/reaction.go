package services

import (
	"context"
	"errors"
	"time"

	"blogreact/internal/db"
	"blogreact/internal/errs"
	"blogreact/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errAlreadyReacted = errs.Conflict("you have already reacted to this blog")

type ReactionRepository interface {
	FindActiveByBlogAndUser(ctx context.Context, blogID, userID uuid.UUID) (*models.Reaction, error)
	Create(ctx context.Context, reaction *models.Reaction) error
	Modify(ctx context.Context, blogID, userID uuid.UUID, fn func(*models.Reaction) error) (*models.Reaction, error)
	ListActiveByBlog(ctx context.Context, blogID uuid.UUID) ([]models.Reaction, error)
	CountActiveByType(ctx context.Context, blogID uuid.UUID) (models.ReactionCounts, error)
}

type EventPublisher interface {
	Dispatch(ctx context.Context, evt ReactionEvent)
}

// CreateOutcome tells a fresh reaction apart from a reactivated one.
type CreateOutcome int

const (
	OutcomeCreated CreateOutcome = iota
	OutcomeReactivated
)

// UserReaction identifies the requester's own active reaction.
type UserReaction struct {
	ID   uuid.UUID           `json:"id"`
	Type models.ReactionType `json:"type"`
}

type ReactionSummary struct {
	Reactions  []models.Reaction     `json:"reactions"`
	TotalCount models.ReactionCounts `json:"totalCount"`
	IsReacted  *UserReaction         `json:"isReacted"`
}

// ReactionService owns the reaction lifecycle: one row per (blog, user),
// soft-deleted on removal and reactivated when the user reacts again.
type ReactionService struct {
	store  ReactionRepository
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewReactionService(store ReactionRepository, events EventPublisher, log *zap.Logger) *ReactionService {
	return &ReactionService{
		store:  store,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *ReactionService) Create(ctx context.Context, userID, blogID uuid.UUID, t models.ReactionType) (*models.Reaction, CreateOutcome, error) {
	if blogID == uuid.Nil || t == "" {
		return nil, OutcomeCreated, errs.BadRequest("blog ID and reaction type are required")
	}
	if !t.Valid() {
		return nil, OutcomeCreated, errs.BadRequest("invalid reaction type")
	}

	// Reactivation runs under the row lock so that of two concurrent
	// creates on a soft-deleted row exactly one wins.
	reaction, err := s.store.Modify(ctx, blogID, userID, func(r *models.Reaction) error {
		if !r.IsDeleted {
			return errAlreadyReacted
		}
		r.Restore(t)
		return nil
	})
	switch {
	case errors.Is(err, db.ErrReactionNotFound):
		return s.insert(ctx, userID, blogID, t)
	case errors.Is(err, errAlreadyReacted):
		return nil, OutcomeCreated, err
	case err != nil:
		return nil, OutcomeReactivated, errs.Internal("failed to restore reaction", err)
	}
	s.publish(ctx, reaction, ActionUpdated)
	return reaction, OutcomeReactivated, nil
}

func (s *ReactionService) insert(ctx context.Context, userID, blogID uuid.UUID, t models.ReactionType) (*models.Reaction, CreateOutcome, error) {
	reaction := &models.Reaction{
		BlogID: blogID,
		UserID: userID,
		Type:   t,
	}
	if err := s.store.Create(ctx, reaction); err != nil {
		if errors.Is(err, db.ErrDuplicateReaction) {
			s.log.Warn("Concurrent reaction create lost the unique index race",
				zap.String("blog_id", blogID.String()),
				zap.String("user_id", userID.String()))
			return nil, OutcomeCreated, errAlreadyReacted
		}
		return nil, OutcomeCreated, errs.Internal("failed to create reaction", err)
	}
	s.publish(ctx, reaction, ActionCreated)
	return reaction, OutcomeCreated, nil
}

// Update overwrites the type of the user's reaction, reactivating it if it
// was soft-deleted.
func (s *ReactionService) Update(ctx context.Context, userID, blogID uuid.UUID, t models.ReactionType) (*models.Reaction, error) {
	if t == "" {
		return nil, errs.BadRequest("reaction type is required")
	}
	if !t.Valid() {
		return nil, errs.BadRequest("invalid reaction type")
	}
	if blogID == uuid.Nil {
		return nil, errs.BadRequest("blog ID is required")
	}

	reaction, err := s.store.Modify(ctx, blogID, userID, func(r *models.Reaction) error {
		r.Restore(t)
		return nil
	})
	if errors.Is(err, db.ErrReactionNotFound) {
		return nil, errs.NotFound("reaction not found")
	}
	if err != nil {
		return nil, errs.Internal("failed to update reaction", err)
	}
	s.publish(ctx, reaction, ActionUpdated)
	return reaction, nil
}

// List returns the blog's active reactions, per-type totals, and the
// requester's own active reaction if any.
func (s *ReactionService) List(ctx context.Context, userID, blogID uuid.UUID) (*ReactionSummary, error) {
	if blogID == uuid.Nil {
		return nil, errs.BadRequest("blog ID is required")
	}

	reactions, err := s.store.ListActiveByBlog(ctx, blogID)
	if err != nil {
		return nil, errs.Internal("failed to list reactions", err)
	}
	counts, err := s.store.CountActiveByType(ctx, blogID)
	if err != nil {
		return nil, errs.Internal("failed to count reactions", err)
	}

	summary := &ReactionSummary{
		Reactions:  reactions,
		TotalCount: counts,
	}

	own, err := s.store.FindActiveByBlogAndUser(ctx, blogID, userID)
	switch {
	case errors.Is(err, db.ErrReactionNotFound):
	case err != nil:
		return nil, errs.Internal("failed to load reaction", err)
	default:
		summary.IsReacted = &UserReaction{ID: own.ID, Type: own.Type}
	}
	return summary, nil
}

// Delete soft-deletes the user's reaction to the blog.
func (s *ReactionService) Delete(ctx context.Context, userID, blogID uuid.UUID) (*models.Reaction, error) {
	if blogID == uuid.Nil {
		return nil, errs.BadRequest("blog ID is required")
	}

	now := s.now()
	reaction, err := s.store.Modify(ctx, blogID, userID, func(r *models.Reaction) error {
		r.SoftDelete(now)
		return nil
	})
	if errors.Is(err, db.ErrReactionNotFound) {
		return nil, errs.NotFound("reaction not found")
	}
	if err != nil {
		return nil, errs.Internal("failed to delete reaction", err)
	}
	s.publish(ctx, reaction, ActionDeleted)
	return reaction, nil
}

func (s *ReactionService) publish(ctx context.Context, r *models.Reaction, action ReactionAction) {
	if s.events == nil {
		return
	}
	s.events.Dispatch(ctx, newReactionEvent(r, action, s.now()))
}
