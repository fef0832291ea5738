package domain

import (
	"context"
	"time"
)

// ReasonType classifies a comment on a donor record.
type ReasonType string

const (
	ReasonAdd    ReasonType = "ADD"
	ReasonRemove ReasonType = "REMOVE"
	ReasonOther  ReasonType = "OTHER"
)

// Valid reports whether t is a known reason type.
func (t ReasonType) Valid() bool {
	return t == ReasonAdd || t == ReasonRemove || t == ReasonOther
}

// Comment is a typed note left on a donor record.
// swagger:model Comment
type Comment struct {
	ID           int64      `json:"id"`
	Type         ReasonType `json:"type"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"createdAt"`
	DonorID      int64      `json:"donorId"`
	FundraiserID *int64     `json:"fundraiserId"`
	EventID      *int64     `json:"eventId"`
}

// CommentFilter selects comments. A set ID short-circuits the other fields.
type CommentFilter struct {
	ID           *int64
	FundraiserID *int64
	DonorID      *int64
	EventID      *int64
	Type         *ReasonType
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	List(ctx context.Context, filter CommentFilter) ([]*Comment, error)
	Delete(ctx context.Context, id int64) (*Comment, error)
}

// CommentService defines comment operations. Comments are append-only.
type CommentService interface {
	CreateComment(ctx context.Context, c *Comment) error
	GetComments(ctx context.Context, filter CommentFilter) ([]*Comment, error)
	DeleteComment(ctx context.Context, id int64) (*Comment, error)
}
