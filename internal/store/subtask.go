package store

import (
	"context"
	"errors"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubtaskStore struct {
	db *database.DB
}

func NewSubtaskStore(db *database.DB) *SubtaskStore {
	return &SubtaskStore{db: db}
}

func scanSubtask(row pgx.Row) (*models.Subtask, error) {
	var st models.Subtask
	err := row.Scan(
		&st.ID, &st.ParentTask, &st.Title, &st.Done, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *SubtaskStore) Create(ctx context.Context, parentTask uuid.UUID, title string, createdBy uuid.UUID) (*models.Subtask, error) {
	return scanSubtask(s.db.Pool.QueryRow(ctx, `
		INSERT INTO subtasks (parent_task, title, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, parent_task, title, done, created_by, created_at, updated_at
	`, parentTask, title, createdBy))
}

func (s *SubtaskStore) GetByID(ctx context.Context, subtaskID uuid.UUID) (*models.Subtask, error) {
	return scanSubtask(s.db.Pool.QueryRow(ctx, `
		SELECT id, parent_task, title, done, created_by, created_at, updated_at
		FROM subtasks WHERE id = $1
	`, subtaskID))
}

func (s *SubtaskStore) GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Subtask, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, parent_task, title, done, created_by, created_at, updated_at
		FROM subtasks WHERE parent_task = $1
		ORDER BY created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtasks []models.Subtask
	for rows.Next() {
		var st models.Subtask
		if err := rows.Scan(
			&st.ID, &st.ParentTask, &st.Title, &st.Done, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

func (s *SubtaskStore) Update(ctx context.Context, subtaskID uuid.UUID, title string, done bool) (*models.Subtask, error) {
	return scanSubtask(s.db.Pool.QueryRow(ctx, `
		UPDATE subtasks SET title = $1, done = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, parent_task, title, done, created_by, created_at, updated_at
	`, title, done, subtaskID))
}

func (s *SubtaskStore) Delete(ctx context.Context, subtaskID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, subtaskID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
