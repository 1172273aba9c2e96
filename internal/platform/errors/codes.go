// Package errors provides structured error handling for the editor backend.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Identity errors
	CodeIdentityMissing   Code = "IDENTITY_MISSING"
	CodeIdentityAmbiguous Code = "IDENTITY_AMBIGUOUS"

	// Access errors
	CodeAccessDenied Code = "ACCESS_DENIED"

	// Project errors
	CodeProjectEmptyTemplateID Code = "PROJECT_EMPTY_TEMPLATE_ID"
	CodeProjectInvalidStatus   Code = "PROJECT_INVALID_STATUS"

	// Template errors
	CodeTemplateIncomplete  Code = "TEMPLATE_INCOMPLETE"
	CodeTemplateInvalidType Code = "TEMPLATE_INVALID_TYPE"

	// Page state errors
	CodeAlreadyMaterialized Code = "PAGE_STATE_ALREADY_MATERIALIZED"
	CodeNotMaterialized     Code = "PAGE_STATE_NOT_MATERIALIZED"

	// Definition errors
	CodeDefinitionInvalid   Code = "DEFINITION_INVALID"
	CodeDefinitionMalformed Code = "DEFINITION_MALFORMED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
	CodeStorage  Code = "STORAGE_FAILURE"
)

// HTTPStatus maps domain codes to HTTP status codes for client responses.
func (c Code) HTTPStatus() int {
	switch c {
	// Unauthorized - caller arrived without a usable identity
	case CodeIdentityMissing,
		CodeIdentityAmbiguous:
		return http.StatusUnauthorized

	// Forbidden - identity does not own the resource
	case CodeAccessDenied:
		return http.StatusForbidden

	// Bad request - validation failures, bad input
	case CodeProjectEmptyTemplateID,
		CodeProjectInvalidStatus,
		CodeTemplateInvalidType,
		CodeDefinitionInvalid,
		CodeDefinitionMalformed:
		return http.StatusBadRequest

	// Conflict - state does not allow the operation
	case CodeTemplateIncomplete,
		CodeAlreadyMaterialized:
		return http.StatusConflict

	// NotFound - resource doesn't exist, or ordering precondition failed
	case CodeNotFound,
		CodeNotMaterialized:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
