package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/fotom-studio/fotom/internal/platform/id"
)

// ProjectStatus describes where a project sits in the ordering flow.
type ProjectStatus string

const (
	// ProjectStatusDraft indicates the project is still being edited.
	ProjectStatusDraft ProjectStatus = "draft"
	// ProjectStatusInCart indicates the project has been added to a cart.
	ProjectStatusInCart ProjectStatus = "in_cart"
)

// IsValidProjectStatus reports whether value is a known project status.
func IsValidProjectStatus(value ProjectStatus) bool {
	switch value {
	case ProjectStatusDraft, ProjectStatusInCart:
		return true
	default:
		return false
	}
}

// Project is a user's or guest's editable instance of a product template.
//
// Owner is fixed at creation and never reassigned. TemplateID is set at
// creation and stamped onto the page state on first materialization.
type Project struct {
	ID         string
	Owner      OwnerIdentity
	TemplateID string
	Status     ProjectStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
	// DeletedAt marks a soft-deleted project. Rows are never hard-deleted
	// here; file cleanup belongs to the uploader service.
	DeletedAt *time.Time
}

// IsDeleted reports whether the project has been soft-deleted.
func (p Project) IsDeleted() bool {
	return p.DeletedAt != nil
}

// CreateProjectInput describes what is needed to open a new project.
type CreateProjectInput struct {
	Owner      OwnerIdentity
	TemplateID string
}

// CreateProject creates a new draft project with a generated ID and timestamps.
func CreateProject(input CreateProjectInput, now func() time.Time, idGenerator func() (string, error)) (Project, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if input.Owner.IsZero() {
		return Project{}, ErrIdentityMissing
	}
	templateID := strings.TrimSpace(input.TemplateID)
	if templateID == "" {
		return Project{}, ErrEmptyTemplateID
	}

	projectID, err := idGenerator()
	if err != nil {
		return Project{}, fmt.Errorf("generate project id: %w", err)
	}

	createdAt := now().UTC()
	return Project{
		ID:         projectID,
		Owner:      input.Owner,
		TemplateID: templateID,
		Status:     ProjectStatusDraft,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}
