package services

import (
	"context"
	"errors"
	"strings"

	"github.com/roddesu/updatedsafespace/internal/logger"
	"github.com/roddesu/updatedsafespace/internal/models"

	"go.uber.org/zap"
)

var ErrEmptyDescription = errors.New("empty description")

type PostRepo interface {
	CreatePost(ctx context.Context, post *models.Post) error
	ListPosts(ctx context.Context) ([]*models.Post, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
}

type PostService struct {
	repo PostRepo
}

func NewPostService(repo PostRepo) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) CreatePost(ctx context.Context, userID int64, description string) (*models.Post, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}
	post := &models.Post{UserID: userID, Description: description}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		logger.Log.Error("Failed to create post (service)", zap.Error(err))
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.repo.ListPosts(ctx)
}

func (s *PostService) AddComment(ctx context.Context, postID, userID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDescription
	}
	comment := &models.Comment{PostID: postID, UserID: userID, Text: text}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		logger.Log.Error("Failed to create comment (service)", zap.Error(err))
		return nil, err
	}
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return s.repo.ListComments(ctx, postID)
}
