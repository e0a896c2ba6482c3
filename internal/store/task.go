package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, title, description, status, priority, due_date, created_by,
	assigned_user, version, last_modified, updated_by, created_at, updated_at`

type TaskStore struct {
	db *database.DB
}

func NewTaskStore(db *database.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate,
		&t.CreatedBy, &t.AssignedUser, &t.Version, &t.LastModified,
		&t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	return scanTask(s.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, created_by, assigned_user, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $6)
		RETURNING `+taskColumns+`
	`, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.CreatedBy, t.AssignedUser))
}

func (s *TaskStore) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	return scanTask(s.db.Pool.QueryRow(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = $1
	`, taskID))
}

// UpdateVersioned writes the task's mutable fields with a compare-and-swap on
// the version column: the write applies only if the stored version still
// equals expectedVersion, and increments it by one. A failed swap is
// disambiguated into ErrNotFound (row gone) or ErrStaleVersion.
func (s *TaskStore) UpdateVersioned(ctx context.Context, taskID uuid.UUID, expectedVersion int, t *models.Task) (*models.Task, error) {
	updated, err := scanTask(s.db.Pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
			assigned_user = $6, version = version + 1, last_modified = NOW(),
			updated_by = $7, updated_at = NOW()
		WHERE id = $8 AND version = $9
		RETURNING `+taskColumns+`
	`, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.AssignedUser, t.UpdatedBy, taskID, expectedVersion))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var currentVersion int
	verr := s.db.Pool.QueryRow(ctx, `SELECT version FROM tasks WHERE id = $1`, taskID).Scan(&currentVersion)
	if verr != nil {
		return nil, ErrNotFound
	}
	if currentVersion != expectedVersion {
		return nil, ErrStaleVersion
	}
	return nil, err
}

func (s *TaskStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActive counts tasks assigned to the user that are not in a terminal
// status. Smart assignment uses this as its load metric.
func (s *TaskStore) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks WHERE assigned_user = $1 AND status != $2
	`, userID, models.TaskStatusDone).Scan(&count)
	return count, err
}

func (s *TaskStore) FindByIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.Task, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = ANY($1)
		ORDER BY created_at DESC
	`, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// FindPersonal returns tasks the user created or is assigned to.
func (s *TaskStore) FindPersonal(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE created_by = $1 OR assigned_user = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// TaskFilter narrows a task search. Zero-valued fields are ignored.
type TaskFilter struct {
	Status       string
	Priority     string
	AssignedUser *uuid.UUID
	CreatedBy    *uuid.UUID
	Query        string
}

func (s *TaskStore) Search(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.AssignedUser != nil {
		args = append(args, *filter.AssignedUser)
		query += fmt.Sprintf(" AND assigned_user = $%d", len(args))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		query += fmt.Sprintf(" AND created_by = $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate,
			&t.CreatedBy, &t.AssignedUser, &t.Version, &t.LastModified,
			&t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
