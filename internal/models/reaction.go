package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionHaha  ReactionType = "haha"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ReactionTypes lists every reaction type in display order.
var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionHaha, ReactionSad, ReactionAngry}

func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Reaction is one user's reaction to one blog post. The (blog_id, user_id)
// pair is unique, soft-deleted rows included, so a returning user reuses
// their old row. UserID is not a database foreign key: users belong to the
// credential service and removing one must not remove reactions.
type Reaction struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	BlogID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_blog_user,priority:1;index:idx_reaction_blog_active,priority:1" json:"blogId"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_blog_user,priority:2" json:"userId"`
	User      *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type      ReactionType `gorm:"size:10;not null" json:"type"`
	IsDeleted bool         `gorm:"not null;default:false;index:idx_reaction_blog_active,priority:2" json:"isDeleted"`
	DeletedAt *time.Time   `json:"deletedAt"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Restore makes a soft-deleted reaction active again with the given type.
func (r *Reaction) Restore(t ReactionType) {
	r.Type = t
	r.IsDeleted = false
	r.DeletedAt = nil
}

// SoftDelete marks the reaction inactive without removing the row.
func (r *Reaction) SoftDelete(at time.Time) {
	r.IsDeleted = true
	r.DeletedAt = &at
}

// ReactionCounts holds the number of active reactions per type.
type ReactionCounts map[ReactionType]int64

// NewReactionCounts returns counts with every type present and zero.
func NewReactionCounts() ReactionCounts {
	counts := make(ReactionCounts, len(ReactionTypes))
	for _, t := range ReactionTypes {
		counts[t] = 0
	}
	return counts
}
