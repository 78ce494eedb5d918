package db

import (
	"context"
	"errors"

	"blogreact/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReactionNotFound  = errors.New("reaction not found")
	ErrDuplicateReaction = errors.New("reaction already exists for blog and user")
)

// ReactionStore persists reactions. Uniqueness of (blog, user) is left to
// the database index; a losing concurrent insert yields ErrDuplicateReaction.
type ReactionStore struct {
	db *gorm.DB
}

func NewReactionStore(db *gorm.DB) *ReactionStore {
	return &ReactionStore{db: db}
}

// FindByBlogAndUser returns the reaction for the pair, soft-deleted or not.
func (s *ReactionStore) FindByBlogAndUser(ctx context.Context, blogID, userID uuid.UUID) (*models.Reaction, error) {
	var reaction models.Reaction
	err := s.db.WithContext(ctx).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &reaction, nil
}

// FindActiveByBlogAndUser is FindByBlogAndUser restricted to non-deleted rows.
func (s *ReactionStore) FindActiveByBlogAndUser(ctx context.Context, blogID, userID uuid.UUID) (*models.Reaction, error) {
	var reaction models.Reaction
	err := s.db.WithContext(ctx).
		Where("blog_id = ? AND user_id = ? AND is_deleted = ?", blogID, userID, false).
		First(&reaction).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &reaction, nil
}

func (s *ReactionStore) Create(ctx context.Context, reaction *models.Reaction) error {
	err := s.db.WithContext(ctx).Create(reaction).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateReaction
	}
	return err
}

// Modify locks the pair's reaction, applies fn and writes it back in one
// transaction, returning the stored result. An error from fn aborts the
// transaction and is returned unchanged.
func (s *ReactionStore) Modify(ctx context.Context, blogID, userID uuid.UUID, fn func(*models.Reaction) error) (*models.Reaction, error) {
	var reaction models.Reaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("blog_id = ? AND user_id = ?", blogID, userID).
			First(&reaction).Error; err != nil {
			return notFound(err)
		}
		if err := fn(&reaction); err != nil {
			return err
		}
		return tx.Save(&reaction).Error
	})
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// ListActiveByBlog returns the blog's active reactions, oldest first, each
// with its reactor loaded without the password column.
func (s *ReactionStore) ListActiveByBlog(ctx context.Context, blogID uuid.UUID) ([]models.Reaction, error) {
	reactions := make([]models.Reaction, 0)
	err := s.db.WithContext(ctx).
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select(models.PublicUserColumns)
		}).
		Where("blog_id = ? AND is_deleted = ?", blogID, false).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

// CountActiveByType returns active reaction counts with every type present.
func (s *ReactionStore) CountActiveByType(ctx context.Context, blogID uuid.UUID) (models.ReactionCounts, error) {
	var rows []struct {
		Type  models.ReactionType
		Count int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("type, COUNT(*) AS count").
		Where("blog_id = ? AND is_deleted = ?", blogID, false).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := models.NewReactionCounts()
	for _, row := range rows {
		if row.Type.Valid() {
			counts[row.Type] = row.Count
		}
	}
	return counts, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReactionNotFound
	}
	return err
}
