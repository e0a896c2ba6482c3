package store

import (
	"context"
	"errors"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ShareStore struct {
	db *database.DB
}

func NewShareStore(db *database.DB) *ShareStore {
	return &ShareStore{db: db}
}

// GetSharesForTask returns every share record of the task, with the team
// populated for display.
func (s *ShareStore) GetSharesForTask(ctx context.Context, taskID uuid.UUID) ([]models.SharedTask, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT st.id, st.task_id, st.team_id, st.permissions, st.shared_by, st.shared_at,
		       t.id, t.name, t.description, t.created_by, t.created_at, t.updated_at
		FROM shared_tasks st
		JOIN teams t ON st.team_id = t.id
		WHERE st.task_id = $1
		ORDER BY st.shared_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.SharedTask
	for rows.Next() {
		var share models.SharedTask
		var team models.Team
		if err := rows.Scan(
			&share.ID, &share.TaskID, &share.TeamID, &share.Permissions, &share.SharedBy, &share.SharedAt,
			&team.ID, &team.Name, &team.Description, &team.CreatedBy, &team.CreatedAt, &team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		share.Team = &team
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

// GetTaskIDsForTeam lists the ids of all tasks shared with the team.
func (s *ShareStore) GetTaskIDsForTeam(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT task_id FROM shared_tasks WHERE team_id = $1
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Upsert shares the task with the team, updating the permission level if a
// share already exists. (task_id, team_id) is unique.
func (s *ShareStore) Upsert(ctx context.Context, taskID, teamID, sharedBy uuid.UUID, permissions string) (*models.SharedTask, error) {
	var share models.SharedTask
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO shared_tasks (task_id, team_id, shared_by, permissions)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (task_id, team_id) DO UPDATE SET
			permissions = EXCLUDED.permissions,
			shared_by = EXCLUDED.shared_by
		RETURNING id, task_id, team_id, permissions, shared_by, shared_at
	`, taskID, teamID, sharedBy, permissions).Scan(
		&share.ID, &share.TaskID, &share.TeamID, &share.Permissions, &share.SharedBy, &share.SharedAt,
	)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (s *ShareStore) UpdatePermissions(ctx context.Context, taskID, teamID uuid.UUID, permissions string) (*models.SharedTask, error) {
	var share models.SharedTask
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE shared_tasks SET permissions = $1
		WHERE task_id = $2 AND team_id = $3
		RETURNING id, task_id, team_id, permissions, shared_by, shared_at
	`, permissions, taskID, teamID).Scan(
		&share.ID, &share.TaskID, &share.TeamID, &share.Permissions, &share.SharedBy, &share.SharedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (s *ShareStore) Delete(ctx context.Context, taskID, teamID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM shared_tasks WHERE task_id = $1 AND team_id = $2
	`, taskID, teamID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
