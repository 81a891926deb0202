package repository

import (
	"context"

	"github.com/roddesu/updatedsafespace/internal/logger"
	"github.com/roddesu/updatedsafespace/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostRepository struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	logger.Log.Info("Creating post (repo)", zap.Int64("user_id", post.UserID))
	query := `
	INSERT INTO posts (user_id, description)
	VALUES ($1, $2)
	RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, post.UserID, post.Description).Scan(&post.ID, &post.CreatedAt)
}

func (r *PostRepository) ListPosts(ctx context.Context) ([]*models.Post, error) {
	logger.Log.Debug("Listing posts (repo)")
	query := `
	SELECT p.id, p.user_id, p.description, p.created_at, COUNT(c.id)
	FROM posts p
	LEFT JOIN comments c ON c.post_id = p.id
	GROUP BY p.id
	ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Failed to list posts (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Description, &p.CreatedAt, &p.CommentCount); err != nil {
			logger.Log.Error("Failed to scan post (repo)", zap.Error(err))
			return nil, err
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	logger.Log.Info("Creating comment (repo)", zap.Int64("post_id", comment.PostID))
	query := `
	INSERT INTO comments (post_id, user_id, text)
	VALUES ($1, $2, $3)
	RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, comment.PostID, comment.UserID, comment.Text).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *PostRepository) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	logger.Log.Debug("Listing comments (repo)", zap.Int64("post_id", postID))
	query := `
	SELECT id, post_id, user_id, text, created_at
	FROM comments
	WHERE post_id = $1
	ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		logger.Log.Error("Failed to list comments (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			logger.Log.Error("Failed to scan comment (repo)", zap.Error(err))
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
