// Package service orchestrates editor operations over storage.
//
// It owns the read-materializes / write-validates flow: first read of a
// project creates its page state from the template, saves replace it only
// after the definition document passes structural and template checks.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/fotom-studio/fotom/internal/platform/errors"
	"github.com/fotom-studio/fotom/internal/platform/id"
	"github.com/fotom-studio/fotom/internal/services/editor/domain"
	"github.com/fotom-studio/fotom/internal/services/editor/storage"
)

// Deps collects the collaborators an editor Service needs. Now and NewID
// default to the real clock and id generator when left nil.
type Deps struct {
	Projects   storage.ProjectStore
	Templates  storage.TemplateStore
	PageStates storage.PageStateStore
	Schema     *domain.Schema
	Now        func() time.Time
	NewID      func() (string, error)
}

// Service implements the editor operations behind the HTTP API.
type Service struct {
	projects   storage.ProjectStore
	templates  storage.TemplateStore
	pageStates storage.PageStateStore
	schema     domain.Schema
	now        func() time.Time
	newID      func() (string, error)
}

// New creates an editor service from its dependencies.
func New(deps Deps) *Service {
	schema := domain.DefaultSchema()
	if deps.Schema != nil {
		schema = *deps.Schema
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		projects:   deps.Projects,
		templates:  deps.Templates,
		pageStates: deps.PageStates,
		schema:     schema,
		now:        now,
		newID:      newID,
	}
}

// liveProject loads a project and hides soft-deleted rows behind not-found.
// Deletion status is never disclosed, not even to the owner.
func (s *Service) liveProject(ctx context.Context, projectID string) (domain.Project, error) {
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}
	if project.IsDeleted() {
		return domain.Project{}, storage.ErrNotFound
	}
	return project, nil
}

// ownedProject loads a live project and checks caller ownership.
func (s *Service) ownedProject(ctx context.Context, caller domain.OwnerIdentity, projectID string) (domain.Project, error) {
	project, err := s.liveProject(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}
	if err := domain.Authorize(project, caller); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

// CreateProject opens a new draft project against a catalog template.
func (s *Service) CreateProject(ctx context.Context, caller domain.OwnerIdentity, templateID string) (domain.Project, error) {
	project, err := domain.CreateProject(domain.CreateProjectInput{
		Owner:      caller,
		TemplateID: templateID,
	}, s.now, s.newID)
	if err != nil {
		return domain.Project{}, err
	}

	// The template must exist before the project references it.
	if _, err := s.templates.GetTemplate(ctx, project.TemplateID); err != nil {
		return domain.Project{}, err
	}

	if err := s.projects.PutProject(ctx, project); err != nil {
		return domain.Project{}, fmt.Errorf("store project: %w", err)
	}
	return project, nil
}

// GetProject returns a project the caller owns.
func (s *Service) GetProject(ctx context.Context, caller domain.OwnerIdentity, projectID string) (domain.Project, error) {
	return s.ownedProject(ctx, caller, projectID)
}

// ListProjects returns the caller's live projects, most recently updated first.
func (s *Service) ListProjects(ctx context.Context, caller domain.OwnerIdentity) ([]domain.Project, error) {
	if caller.IsZero() {
		return nil, domain.ErrIdentityMissing
	}
	return s.projects.ListProjectsByOwner(ctx, caller)
}

// DeleteProject soft-deletes a project the caller owns. Page state rows are
// kept; they become unreachable once the project reads as not found.
func (s *Service) DeleteProject(ctx context.Context, caller domain.OwnerIdentity, projectID string) error {
	project, err := s.ownedProject(ctx, caller, projectID)
	if err != nil {
		return err
	}

	deletedAt := s.now().UTC()
	project.DeletedAt = &deletedAt
	project.UpdatedAt = deletedAt
	if err := s.projects.PutProject(ctx, project); err != nil {
		return fmt.Errorf("store project: %w", err)
	}
	return nil
}

// LoadTemplate returns the current template of a project the caller owns.
func (s *Service) LoadTemplate(ctx context.Context, caller domain.OwnerIdentity, projectID string) (domain.ProductTemplate, error) {
	project, err := s.ownedProject(ctx, caller, projectID)
	if err != nil {
		return domain.ProductTemplate{}, err
	}
	return s.templates.GetTemplate(ctx, project.TemplateID)
}

// ListTemplates returns catalog templates, optionally filtered by type.
func (s *Service) ListTemplates(ctx context.Context, templateType domain.TemplateType) ([]domain.ProductTemplate, error) {
	return s.templates.ListTemplates(ctx, templateType)
}

// GetTemplate returns one catalog template by id.
func (s *Service) GetTemplate(ctx context.Context, templateID string) (domain.ProductTemplate, error) {
	return s.templates.GetTemplate(ctx, templateID)
}

// LoadContent returns the composed definition document for a project,
// materializing the page state from the template on first read.
func (s *Service) LoadContent(ctx context.Context, caller domain.OwnerIdentity, projectID string) (domain.Definition, error) {
	project, err := s.ownedProject(ctx, caller, projectID)
	if err != nil {
		return domain.Definition{}, err
	}
	template, err := s.templates.GetTemplate(ctx, project.TemplateID)
	if err != nil {
		return domain.Definition{}, err
	}

	state, err := s.pageStates.GetPageStateByProject(ctx, projectID)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		state, err = s.materialize(ctx, project, template)
		if err != nil {
			return domain.Definition{}, err
		}
	default:
		return domain.Definition{}, fmt.Errorf("load page state: %w", err)
	}

	assets, err := s.pageStates.GetAssets(ctx, state.ID)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("load assets: %w", err)
	}
	return domain.Compose(project, template, &state, assets), nil
}

// materialize creates the project's page state from its template. Losing a
// concurrent creation race is not an error: the winner's state is re-read
// and returned.
func (s *Service) materialize(ctx context.Context, project domain.Project, template domain.ProductTemplate) (domain.PageState, error) {
	state, err := domain.Materialize(project, template, s.now, s.newID)
	if err != nil {
		return domain.PageState{}, err
	}

	err = s.pageStates.CreatePageState(ctx, state)
	switch {
	case err == nil:
		return state, nil
	case errors.Is(err, storage.ErrPageStateExists):
		winner, readErr := s.pageStates.GetPageStateByProject(ctx, project.ID)
		if readErr != nil {
			return domain.PageState{}, fmt.Errorf("re-read page state after create race: %w", readErr)
		}
		return winner, nil
	default:
		return domain.PageState{}, fmt.Errorf("create page state: %w", err)
	}
}

// SaveContent validates and persists a submitted definition document, then
// returns the stored state composed the same way a fresh read would see it.
func (s *Service) SaveContent(ctx context.Context, caller domain.OwnerIdentity, projectID string, def domain.Definition) (domain.Definition, error) {
	project, err := s.ownedProject(ctx, caller, projectID)
	if err != nil {
		return domain.Definition{}, err
	}

	state, err := s.pageStates.GetPageStateByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Definition{}, domain.ErrNotMaterialized
		}
		return domain.Definition{}, fmt.Errorf("load page state: %w", err)
	}

	template, err := s.templates.GetTemplate(ctx, project.TemplateID)
	if err != nil {
		return domain.Definition{}, err
	}

	violations := s.schema.Validate(def)
	violations = append(violations, crossCheckTemplate(def, template)...)
	violations = append(violations, crossCheckQuantities(def)...)
	if len(violations) > 0 {
		return domain.Definition{}, validationError(violations)
	}

	savedAt := s.now().UTC()
	next, assets := splitDefinition(def, state, savedAt)
	if err := s.pageStates.ReplacePageState(ctx, next, assets); err != nil {
		return domain.Definition{}, fmt.Errorf("replace page state: %w", err)
	}

	project.UpdatedAt = savedAt
	if err := s.projects.PutProject(ctx, project); err != nil {
		return domain.Definition{}, fmt.Errorf("store project: %w", err)
	}

	// Compose the response from a fresh read of what the store actually
	// holds, not from the submitted values, so any coercion applied during
	// persistence is visible to the caller immediately.
	stored, err := s.pageStates.GetPageStateByProject(ctx, projectID)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("re-read page state: %w", err)
	}
	storedAssets, err := s.pageStates.GetAssets(ctx, stored.ID)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("re-read assets: %w", err)
	}
	return domain.Compose(project, template, &stored, storedAssets), nil
}

// crossCheckTemplate verifies every submitted page against the project's
// current template: the page key must exist there and its definition key
// must still match. This keeps saves honest across template revisions.
func crossCheckTemplate(def domain.Definition, template domain.ProductTemplate) []domain.FieldViolation {
	byKey := make(map[string]domain.PageDefinition, len(template.PageDefinitions))
	for _, pd := range template.PageDefinitions {
		byKey[pd.Key] = pd
	}

	var violations []domain.FieldViolation
	for i, page := range def.Pages {
		if page.Key == "" {
			continue // already reported by the schema validator
		}
		pd, ok := byKey[page.Key]
		if !ok {
			violations = append(violations, domain.FieldViolation{
				Field:  fmt.Sprintf("pages[%d].key", i),
				Reason: fmt.Sprintf("page %q is not part of the project's template", page.Key),
			})
			continue
		}
		if page.PageDefinitionKey != pd.PageDefinitionKey {
			violations = append(violations, domain.FieldViolation{
				Field:  fmt.Sprintf("pages[%d].page_definition_key", i),
				Reason: fmt.Sprintf("%q does not match the template's %q", page.PageDefinitionKey, pd.PageDefinitionKey),
			})
		}
	}
	return violations
}

// crossCheckQuantities rejects print quantities that reference a page key
// absent from the submitted document.
func crossCheckQuantities(def domain.Definition) []domain.FieldViolation {
	pageKeys := make(map[string]bool, len(def.Pages))
	for _, page := range def.Pages {
		pageKeys[page.Key] = true
	}

	var violations []domain.FieldViolation
	for i, quantity := range def.PrintQuantities {
		if quantity.PageKey == "" {
			continue // already reported by the schema validator
		}
		if !pageKeys[quantity.PageKey] {
			violations = append(violations, domain.FieldViolation{
				Field:  fmt.Sprintf("print_quantities[%d].page_key", i),
				Reason: fmt.Sprintf("references unknown page %q", quantity.PageKey),
			})
		}
	}
	return violations
}

// validationError folds field violations into a single invalid-definition
// error whose metadata maps field paths to reasons.
func validationError(violations []domain.FieldViolation) error {
	metadata := make(map[string]string, len(violations))
	for _, violation := range violations {
		metadata[violation.Field] = violation.Reason
	}
	return apperrors.WithMetadata(apperrors.CodeDefinitionInvalid, "definition failed validation", metadata)
}

// splitDefinition separates a validated definition into the page state
// document and its asset sets. Identity fields and creation time carry over
// from the stored state; submitted status and template fields are ignored.
func splitDefinition(def domain.Definition, current domain.PageState, savedAt time.Time) (domain.PageState, domain.AssetsByPage) {
	pages := make([]domain.Page, 0, len(def.Pages))
	assets := make(domain.AssetsByPage, len(def.Pages))
	for _, page := range def.Pages {
		pages = append(pages, page.Page)
		assets[page.Key] = domain.PageAssets{
			Pictures: page.EditablePictures,
			Texts:    page.EditableTexts,
		}
	}

	next := domain.PageState{
		ID:              current.ID,
		ProjectID:       current.ProjectID,
		Pages:           pages,
		PrintQuantities: def.PrintQuantities,
		UsedPhotos:      def.UsedPhotos,
		CreatedAt:       current.CreatedAt,
		UpdatedAt:       savedAt,
	}
	return next, assets
}
