package store

import (
	"context"
	"errors"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CommentStore struct {
	db *database.DB
}

func NewCommentStore(db *database.DB) *CommentStore {
	return &CommentStore{db: db}
}

func (s *CommentStore) Create(ctx context.Context, taskID, userID uuid.UUID, body string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO comments (task_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, task_id, user_id, body, created_at, updated_at
	`, taskID, userID, body).Scan(
		&c.ID, &c.TaskID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CommentStore) GetByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, task_id, user_id, body, created_at, updated_at
		FROM comments WHERE id = $1
	`, commentID).Scan(
		&c.ID, &c.TaskID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *CommentStore) GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT c.id, c.task_id, c.user_id, c.body, c.created_at, c.updated_at,
		       u.id, u.email, u.full_name, u.avatar_url, u.global_role, u.created_at, u.updated_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.task_id = $1
		ORDER BY c.created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var u models.User
		if err := rows.Scan(
			&c.ID, &c.TaskID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt,
			&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.GlobalRole, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.User = &u
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *CommentStore) Delete(ctx context.Context, commentID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
