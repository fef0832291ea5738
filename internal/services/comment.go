package services

import (
	"context"
	"strings"
	"time"

	"donorhub/internal/domain"
)

type commentService struct {
	commentRepo    domain.CommentRepository
	contextTimeout time.Duration
}

func NewCommentService(commentRepo domain.CommentRepository, timeout time.Duration) domain.CommentService {
	return &commentService{commentRepo: commentRepo, contextTimeout: timeoutOrDefault(timeout)}
}

func (s *commentService) CreateComment(ctx context.Context, c *domain.Comment) error {
	var problems []string
	if !c.Type.Valid() {
		problems = append(problems, "type must be one of ADD, REMOVE, OTHER")
	}
	c.Content = strings.TrimSpace(c.Content)
	if c.Content == "" {
		problems = append(problems, "content is required")
	}
	if c.DonorID <= 0 {
		problems = append(problems, "donorId is required")
	}
	if len(problems) > 0 {
		return invalidInput(problems...)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.commentRepo.Create(ctx, c); err != nil {
		return storeErr("create comment", err)
	}
	return nil
}

func (s *commentService) GetComments(ctx context.Context, filter domain.CommentFilter) ([]*domain.Comment, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, invalidInput("type must be one of ADD, REMOVE, OTHER")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comments, err := s.commentRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list comments", err)
	}
	return comments, nil
}

func (s *commentService) DeleteComment(ctx context.Context, id int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return nil, storeErr("delete comment", err)
	}
	return c, nil
}
