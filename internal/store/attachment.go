package store

import (
	"context"
	"errors"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AttachmentStore struct {
	db *database.DB
}

func NewAttachmentStore(db *database.DB) *AttachmentStore {
	return &AttachmentStore{db: db}
}

func (s *AttachmentStore) Create(ctx context.Context, taskID uuid.UUID, filename, fileURL string, uploadedBy uuid.UUID) (*models.Attachment, error) {
	var a models.Attachment
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO attachments (task_id, filename, file_url, uploaded_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, task_id, filename, file_url, uploaded_by, created_at
	`, taskID, filename, fileURL, uploadedBy).Scan(
		&a.ID, &a.TaskID, &a.Filename, &a.FileURL, &a.UploadedBy, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AttachmentStore) GetByID(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, error) {
	var a models.Attachment
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, task_id, filename, file_url, uploaded_by, created_at
		FROM attachments WHERE id = $1
	`, attachmentID).Scan(
		&a.ID, &a.TaskID, &a.Filename, &a.FileURL, &a.UploadedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *AttachmentStore) GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Attachment, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, task_id, filename, file_url, uploaded_by, created_at
		FROM attachments WHERE task_id = $1
		ORDER BY created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.Filename, &a.FileURL, &a.UploadedBy, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (s *AttachmentStore) Delete(ctx context.Context, attachmentID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, attachmentID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
