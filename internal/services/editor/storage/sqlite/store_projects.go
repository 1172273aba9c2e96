package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fotom-studio/fotom/internal/services/editor/domain"
	"github.com/fotom-studio/fotom/internal/services/editor/storage"
)

// ownerColumns splits an owner identity into nullable user and guest columns.
func ownerColumns(owner domain.OwnerIdentity) (userID sql.NullString, guestID sql.NullString, err error) {
	switch owner.Kind() {
	case domain.IdentityKindUser:
		return sql.NullString{String: owner.ID(), Valid: true}, sql.NullString{}, nil
	case domain.IdentityKindGuest:
		return sql.NullString{}, sql.NullString{String: owner.ID(), Valid: true}, nil
	default:
		return sql.NullString{}, sql.NullString{}, fmt.Errorf("project owner is required")
	}
}

// ownerFromColumns rebuilds the identity sum type from nullable columns.
func ownerFromColumns(userID, guestID sql.NullString) (domain.OwnerIdentity, error) {
	var user, guest string
	if userID.Valid {
		user = userID.String
	}
	if guestID.Valid {
		guest = guestID.String
	}
	return domain.NewOwnerIdentity(user, guest)
}

// PutProject inserts or updates a project record. The owner columns are
// written only on insert; ownership never changes after creation.
func (s *Store) PutProject(ctx context.Context, project domain.Project) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID, guestID, err := ownerColumns(project.Owner)
	if err != nil {
		return err
	}

	var deletedAt sql.NullInt64
	if project.DeletedAt != nil {
		deletedAt = sql.NullInt64{Int64: toMillis(*project.DeletedAt), Valid: true}
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO projects (id, user_id, guest_id, template_id, status, created_at, updated_at, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     template_id = excluded.template_id,
		     status = excluded.status,
		     updated_at = excluded.updated_at,
		     deleted_at = excluded.deleted_at`,
		project.ID,
		userID,
		guestID,
		project.TemplateID,
		string(project.Status),
		toMillis(project.CreatedAt),
		toMillis(project.UpdatedAt),
		deletedAt,
	)
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func scanProject(scan func(dest ...any) error) (domain.Project, error) {
	var project domain.Project
	var userID, guestID sql.NullString
	var status string
	var createdAt, updatedAt int64
	var deletedAt sql.NullInt64
	if err := scan(
		&project.ID,
		&userID,
		&guestID,
		&project.TemplateID,
		&status,
		&createdAt,
		&updatedAt,
		&deletedAt,
	); err != nil {
		return domain.Project{}, err
	}

	owner, err := ownerFromColumns(userID, guestID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("project owner columns: %w", err)
	}
	project.Owner = owner
	project.Status = domain.ProjectStatus(status)
	project.CreatedAt = fromMillis(createdAt)
	project.UpdatedAt = fromMillis(updatedAt)
	if deletedAt.Valid {
		at := fromMillis(deletedAt.Int64)
		project.DeletedAt = &at
	}
	return project, nil
}

// GetProject loads a project by id, including soft-deleted rows; callers
// decide how deletion surfaces.
func (s *Store) GetProject(ctx context.Context, projectID string) (domain.Project, error) {
	if s == nil || s.sqlDB == nil {
		return domain.Project{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, user_id, guest_id, template_id, status, created_at, updated_at, deleted_at
		 FROM projects
		 WHERE id = ?`,
		projectID,
	)
	project, err := scanProject(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Project{}, storage.ErrNotFound
		}
		return domain.Project{}, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// ListProjectsByOwner returns the owner's live projects, most recently
// updated first.
func (s *Store) ListProjectsByOwner(ctx context.Context, owner domain.OwnerIdentity) ([]domain.Project, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	userID, guestID, err := ownerColumns(owner)
	if err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, guest_id, template_id, status, created_at, updated_at, deleted_at
		 FROM projects
		 WHERE deleted_at IS NULL
		   AND ((?1 IS NOT NULL AND user_id = ?1) OR (?2 IS NOT NULL AND guest_id = ?2))
		 ORDER BY updated_at DESC`,
		userID,
		guestID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}
