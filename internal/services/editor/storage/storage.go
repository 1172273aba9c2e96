package storage

import (
	"context"

	apperrors "github.com/fotom-studio/fotom/internal/platform/errors"
	"github.com/fotom-studio/fotom/internal/services/editor/domain"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")
	// ErrPageStateExists indicates a page state already exists for the
	// project. A concurrent first read losing the materialization race
	// receives this error and re-reads instead of failing the request.
	ErrPageStateExists = apperrors.New(apperrors.CodeAlreadyMaterialized, "page state already exists for this project")
)

// ProjectStore persists project records.
type ProjectStore interface {
	PutProject(ctx context.Context, project domain.Project) error
	GetProject(ctx context.Context, projectID string) (domain.Project, error)
	// ListProjectsByOwner returns the owner's projects, most recently
	// updated first, excluding soft-deleted rows.
	ListProjectsByOwner(ctx context.Context, owner domain.OwnerIdentity) ([]domain.Project, error)
}

// TemplateStore persists product template catalog records.
type TemplateStore interface {
	PutTemplate(ctx context.Context, template domain.ProductTemplate) error
	GetTemplate(ctx context.Context, templateID string) (domain.ProductTemplate, error)
	// ListTemplates returns catalog entries, optionally filtered by type
	// when templateType is non-empty.
	ListTemplates(ctx context.Context, templateType domain.TemplateType) ([]domain.ProductTemplate, error)
}

// PageStateStore persists page states and their editable assets.
type PageStateStore interface {
	// CreatePageState inserts a new page state. The insert is conditional
	// on the unique project id: when a state already exists the call
	// fails with ErrPageStateExists and writes nothing.
	CreatePageState(ctx context.Context, state domain.PageState) error
	GetPageStateByProject(ctx context.Context, projectID string) (domain.PageState, error)
	// GetAssets loads the editable assets of a page state grouped by page
	// key, preserving stored order within each page.
	GetAssets(ctx context.Context, pageStateID string) (domain.AssetsByPage, error)
	// ReplacePageState atomically replaces the page state document and
	// all of its editable assets in a single transaction. A failed
	// replace leaves the previous document intact.
	ReplacePageState(ctx context.Context, state domain.PageState, assets domain.AssetsByPage) error
}
