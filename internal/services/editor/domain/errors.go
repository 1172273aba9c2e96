package domain

import apperrors "github.com/fotom-studio/fotom/internal/platform/errors"

var (
	// ErrIdentityMissing indicates the caller arrived with neither a user nor a guest identity.
	ErrIdentityMissing = apperrors.New(apperrors.CodeIdentityMissing, "caller identity is required")
	// ErrIdentityAmbiguous indicates the caller presented both a user and a guest identity.
	ErrIdentityAmbiguous = apperrors.New(apperrors.CodeIdentityAmbiguous, "caller identity must be a user or a guest, not both")
	// ErrAccessDenied indicates the caller identity does not own the project.
	ErrAccessDenied = apperrors.New(apperrors.CodeAccessDenied, "caller does not own this project")
	// ErrEmptyTemplateID indicates a missing template reference.
	ErrEmptyTemplateID = apperrors.New(apperrors.CodeProjectEmptyTemplateID, "template id is required")
	// ErrTemplateIncomplete indicates a template without page definitions.
	ErrTemplateIncomplete = apperrors.New(apperrors.CodeTemplateIncomplete, "template has no page definitions")
	// ErrAlreadyMaterialized indicates a page state already exists for the project.
	ErrAlreadyMaterialized = apperrors.New(apperrors.CodeAlreadyMaterialized, "page state already materialized for this project")
	// ErrNotMaterialized indicates a write arrived before the project was ever opened.
	ErrNotMaterialized = apperrors.New(apperrors.CodeNotMaterialized, "page state does not exist for this project")
)
