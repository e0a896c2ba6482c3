package store

import (
	"context"
	"encoding/json"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ActionStore struct {
	db *database.DB
}

func NewActionStore(db *database.DB) *ActionStore {
	return &ActionStore{db: db}
}

func (s *ActionStore) Insert(ctx context.Context, userID uuid.UUID, taskID *uuid.UUID, actionType string, metadata json.RawMessage) (*models.Action, error) {
	var a models.Action
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO actions (user_id, task_id, action_type, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, task_id, action_type, metadata, created_at
	`, userID, taskID, actionType, metadata).Scan(
		&a.ID, &a.UserID, &a.TaskID, &a.ActionType, &a.Metadata, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetRecent returns the newest entries with the acting user joined in.
func (s *ActionStore) GetRecent(ctx context.Context, limit int) ([]models.Action, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT a.id, a.user_id, a.task_id, a.action_type, a.metadata, a.created_at,
		       u.id, u.email, u.full_name, u.avatar_url, u.global_role, u.created_at, u.updated_at
		FROM actions a
		JOIN users u ON a.user_id = u.id
		ORDER BY a.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActions(rows)
}

// GetForTask returns the task's audit trail, oldest first.
func (s *ActionStore) GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Action, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT a.id, a.user_id, a.task_id, a.action_type, a.metadata, a.created_at,
		       u.id, u.email, u.full_name, u.avatar_url, u.global_role, u.created_at, u.updated_at
		FROM actions a
		JOIN users u ON a.user_id = u.id
		WHERE a.task_id = $1
		ORDER BY a.created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActions(rows)
}

func collectActions(rows pgx.Rows) ([]models.Action, error) {
	var actions []models.Action
	for rows.Next() {
		var a models.Action
		var u models.User
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.TaskID, &a.ActionType, &a.Metadata, &a.CreatedAt,
			&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.GlobalRole, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		a.User = &u
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
