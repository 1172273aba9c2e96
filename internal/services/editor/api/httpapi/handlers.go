// Package httpapi exposes the editor service over HTTP JSON.
package httpapi

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/fotom-studio/fotom/internal/platform/errors"
	"github.com/fotom-studio/fotom/internal/services/editor/domain"
	"github.com/fotom-studio/fotom/internal/services/editor/service"
)

// Handler serves the editor HTTP API.
type Handler struct {
	svc      *service.Service
	identity *IdentityMiddleware
}

// NewHandler creates the editor HTTP handler.
func NewHandler(svc *service.Service, identity *IdentityMiddleware) *Handler {
	return &Handler{svc: svc, identity: identity}
}

// Routes returns the routed handler with identity resolution applied to
// every endpoint.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /edit/{projectID}/content", h.handleLoadContent)
	mux.HandleFunc("PUT /edit/{projectID}/content", h.handleSaveContent)
	mux.HandleFunc("GET /edit/{projectID}/template", h.handleLoadTemplate)

	mux.HandleFunc("POST /projects", h.handleCreateProject)
	mux.HandleFunc("GET /projects", h.handleListProjects)
	mux.HandleFunc("GET /projects/{projectID}", h.handleGetProject)
	mux.HandleFunc("DELETE /projects/{projectID}", h.handleDeleteProject)

	mux.HandleFunc("GET /templates", h.handleListTemplates)
	mux.HandleFunc("GET /templates/{templateID}", h.handleGetTemplate)

	return h.identity.Require(mux)
}

func (h *Handler) handleLoadContent(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())
	def, err := h.svc.LoadContent(r.Context(), caller, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, definitionToWire(def))
}

// saveContentRequest is the PUT body: the submitted document rides under
// the definition key.
type saveContentRequest struct {
	Definition definitionPayload `json:"definition"`
}

func (h *Handler) handleSaveContent(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	var payload saveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeDefinitionMalformed, "definition document is not valid JSON", err))
		return
	}

	saved, err := h.svc.SaveContent(r.Context(), caller, r.PathValue("projectID"), definitionFromWire(payload.Definition))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, definitionToWire(saved))
}

func (h *Handler) handleLoadTemplate(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())
	template, err := h.svc.LoadTemplate(r.Context(), caller, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, templateToWire(template))
}

type createProjectRequest struct {
	TemplateID string `json:"template_id"`
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())

	var payload createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeDefinitionMalformed, "request body is not valid JSON", err))
		return
	}

	project, err := h.svc.CreateProject(r.Context(), caller, payload.TemplateID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusCreated, projectToWire(project))
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())
	projects, err := h.svc.ListProjects(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := struct {
		Projects []projectPayload `json:"projects"`
	}{Projects: make([]projectPayload, 0, len(projects))}
	for _, project := range projects {
		payload.Projects = append(payload.Projects, projectToWire(project))
	}
	writeResponse(w, http.StatusOK, payload)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())
	project, err := h.svc.GetProject(r.Context(), caller, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, projectToWire(project))
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r.Context())
	if err := h.svc.DeleteProject(r.Context(), caller, r.PathValue("projectID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListTemplates(r.Context(), domain.TemplateType(r.URL.Query().Get("type")))
	if err != nil {
		writeError(w, err)
		return
	}

	payload := struct {
		Templates []templatePayload `json:"templates"`
	}{Templates: make([]templatePayload, 0, len(templates))}
	for _, template := range templates {
		payload.Templates = append(payload.Templates, templateToWire(template))
	}
	writeResponse(w, http.StatusOK, payload)
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := h.svc.GetTemplate(r.Context(), r.PathValue("templateID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, templateToWire(template))
}
