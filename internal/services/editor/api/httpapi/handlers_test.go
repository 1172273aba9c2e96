package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fotom-studio/fotom/internal/services/editor/domain"
	"github.com/fotom-studio/fotom/internal/services/editor/service"
	"github.com/fotom-studio/fotom/internal/services/editor/storage/sqlite"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-signing-secret")

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.Open(t.TempDir() + "/editor.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	if err := store.PutTemplate(context.Background(), domain.ProductTemplate{
		ID:                "template-retro",
		Name:              "Retro Prints",
		Type:              domain.TemplateTypePrint,
		DefinitionVersion: 2,
		MinDPI:            150,
		PageDefinitions: []domain.PageDefinition{
			{Key: "page-a", ColorKey: "white", FilterTypeKey: "default", PageDefinitionKey: "T1-RETRO"},
			{Key: "page-b", ColorKey: "black", FilterTypeKey: "default", PageDefinitionKey: "STANDARD"},
		},
		PrintQuantities: []domain.PrintQuantity{
			{PageKey: "page-a", Quantity: 1},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed template: %v", err)
	}

	nextID := 0
	svc := service.New(service.Deps{
		Projects:   store,
		Templates:  store,
		PageStates: store,
		NewID: func() (string, error) {
			nextID++
			return fmt.Sprintf("id-%d", nextID), nil
		},
	})
	return NewHandler(svc, NewIdentityMiddleware(testSecret)).Routes()
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func asGuest(guestID string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("X-Guest-Id", guestID)
	}
}

func asUser(t *testing.T, userID string) func(*http.Request) {
	token := signToken(t, userID)
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	}
}

// decodeResponse unwraps the response envelope into target.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	if envelope.Response == nil {
		t.Fatalf("body has no response envelope: %s", rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Response, target); err != nil {
		t.Fatalf("decode response payload: %v", err)
	}
}

// saveBody wraps a definition document the way PUT bodies carry it.
func saveBody(t *testing.T, def definitionPayload) string {
	t.Helper()
	body, err := json.Marshal(saveContentRequest{Definition: def})
	if err != nil {
		t.Fatalf("marshal save body: %v", err)
	}
	return string(body)
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]string) {
	t.Helper()
	var payload struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return payload.Error.Code, payload.Error.Details
}

func createProject(t *testing.T, handler http.Handler, identity func(*http.Request)) string {
	t.Helper()
	rec := doRequest(t, handler, http.MethodPost, "/projects", `{"template_id":"template-retro"}`, identity)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project status = %d, body %s", rec.Code, rec.Body.String())
	}
	var project struct {
		ID string `json:"id"`
	}
	decodeResponse(t, rec, &project)
	return project.ID
}

func TestIdentityRequired(t *testing.T) {
	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/projects", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no identity status = %d, want 401", rec.Code)
	}
	code, _ := decodeErrorCode(t, rec)
	if code != "IDENTITY_MISSING" {
		t.Fatalf("code = %q, want IDENTITY_MISSING", code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/projects", "", func(req *http.Request) {
		asUser(t, "user-1")(req)
		asGuest("guest-1")(req)
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("ambiguous identity status = %d, want 401", rec.Code)
	}
	code, _ = decodeErrorCode(t, rec)
	if code != "IDENTITY_AMBIGUOUS" {
		t.Fatalf("code = %q, want IDENTITY_AMBIGUOUS", code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/projects", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "not-a-jwt"})
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}
}

func TestSuccessBodiesUseResponseEnvelope(t *testing.T) {
	handler := newTestHandler(t)
	guest := asGuest("guest-1")
	projectID := createProject(t, handler, guest)

	for _, target := range []string{
		"/edit/" + projectID + "/content",
		"/edit/" + projectID + "/template",
		"/projects",
		"/projects/" + projectID,
		"/templates",
		"/templates/template-retro",
	} {
		rec := doRequest(t, handler, http.MethodGet, target, "", guest)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, body %s", target, rec.Code, rec.Body.String())
		}
		var body map[string]json.RawMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("GET %s decode body: %v", target, err)
		}
		if _, ok := body["response"]; !ok || len(body) != 1 {
			keys := make([]string, 0, len(body))
			for key := range body {
				keys = append(keys, key)
			}
			t.Fatalf("GET %s top-level keys = %v, want exactly [response]", target, keys)
		}
	}
}

func TestLoadContentMaterializesAndIsStable(t *testing.T) {
	handler := newTestHandler(t)
	guest := asGuest("guest-1")
	projectID := createProject(t, handler, guest)

	rec := doRequest(t, handler, http.MethodGet, "/edit/"+projectID+"/content", "", guest)
	if rec.Code != http.StatusOK {
		t.Fatalf("load content status = %d, body %s", rec.Code, rec.Body.String())
	}
	var def definitionPayload
	decodeResponse(t, rec, &def)
	if def.TemplateID != "template-retro" || def.DefinitionVersion != 2 {
		t.Fatalf("definition header = %q v%d", def.TemplateID, def.DefinitionVersion)
	}
	if def.Status != "draft" {
		t.Fatalf("status = %q, want draft", def.Status)
	}
	if len(def.Pages) != 2 || def.Pages[0].Key != "page-a" {
		t.Fatalf("pages = %v", def.Pages)
	}
	if def.Pages[0].EditablePictures == nil || def.Pages[0].EditableTexts == nil {
		t.Fatal("asset arrays must be present, not null")
	}
	if !strings.Contains(rec.Body.String(), `"editable_pictures":[]`) {
		t.Fatalf("body must encode empty asset arrays: %s", rec.Body.String())
	}
	if len(def.PrintQuantities) != 1 {
		t.Fatalf("print quantities = %v, want the template seed", def.PrintQuantities)
	}
}

func TestProjectAccessIsOwnerOnly(t *testing.T) {
	handler := newTestHandler(t)
	owner := asUser(t, "user-1")
	projectID := createProject(t, handler, owner)

	rec := doRequest(t, handler, http.MethodGet, "/edit/"+projectID+"/content", "", asGuest("guest-1"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger status = %d, want 403", rec.Code)
	}
	code, _ := decodeErrorCode(t, rec)
	if code != "ACCESS_DENIED" {
		t.Fatalf("code = %q, want ACCESS_DENIED", code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/edit/missing/content", "", owner)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing project status = %d, want 404", rec.Code)
	}
}

func TestSaveContentValidation(t *testing.T) {
	handler := newTestHandler(t)
	guest := asGuest("guest-1")
	projectID := createProject(t, handler, guest)

	rec := doRequest(t, handler, http.MethodPut, "/edit/"+projectID+"/content", `{"definition": {`, guest)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d, want 400", rec.Code)
	}
	code, _ := decodeErrorCode(t, rec)
	if code != "DEFINITION_MALFORMED" {
		t.Fatalf("code = %q, want DEFINITION_MALFORMED", code)
	}

	// Save before the first read must be rejected as a missing page state.
	rec = doRequest(t, handler, http.MethodPut, "/edit/"+projectID+"/content", `{"definition":{"pages":[]}}`, guest)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("save before load status = %d, want 404", rec.Code)
	}
	code, _ = decodeErrorCode(t, rec)
	if code != "PAGE_STATE_NOT_MATERIALIZED" {
		t.Fatalf("code = %q, want PAGE_STATE_NOT_MATERIALIZED", code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/edit/"+projectID+"/content", "", guest)
	if rec.Code != http.StatusOK {
		t.Fatalf("load content status = %d", rec.Code)
	}
	var def definitionPayload
	decodeResponse(t, rec, &def)

	def.Pages[0].ColorKey = "chartreuse"
	rec = doRequest(t, handler, http.MethodPut, "/edit/"+projectID+"/content", saveBody(t, def), guest)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid definition status = %d, body %s", rec.Code, rec.Body.String())
	}
	code, details := decodeErrorCode(t, rec)
	if code != "DEFINITION_INVALID" {
		t.Fatalf("code = %q, want DEFINITION_INVALID", code)
	}
	if details["pages[0].color_key"] == "" {
		t.Fatalf("details = %v, want pages[0].color_key entry", details)
	}
}

func TestSaveContentRoundTrip(t *testing.T) {
	handler := newTestHandler(t)
	user := asUser(t, "user-1")
	projectID := createProject(t, handler, user)

	rec := doRequest(t, handler, http.MethodGet, "/edit/"+projectID+"/content", "", user)
	var def definitionPayload
	decodeResponse(t, rec, &def)

	def.Pages[0], def.Pages[1] = def.Pages[1], def.Pages[0]
	def.Pages[0].EditableTexts = []editableTextPayload{
		{EditableTextKey: "text-1", Content: "Hello", FontKey: "font-arial"},
	}
	def.UsedPhotos = []usedPhotoPayload{
		{
			Key:          "photo-1",
			CreationDate: "2026-02-10T08:00:00Z",
			HeightPx:     2400,
			WidthPx:      3600,
			Provider:     "upload",
			ProviderRef:  "upload/photo-1",
		},
	}

	rec = doRequest(t, handler, http.MethodPut, "/edit/"+projectID+"/content", saveBody(t, def), user)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}
	var saved definitionPayload
	decodeResponse(t, rec, &saved)
	if saved.Pages[0].Key != "page-b" {
		t.Fatalf("saved first page = %q, want page-b", saved.Pages[0].Key)
	}

	rec = doRequest(t, handler, http.MethodGet, "/edit/"+projectID+"/content", "", user)
	var reread definitionPayload
	decodeResponse(t, rec, &reread)
	if reread.Pages[0].Key != "page-b" || reread.Pages[1].Key != "page-a" {
		t.Fatalf("page order = [%s, %s], want [page-b, page-a]", reread.Pages[0].Key, reread.Pages[1].Key)
	}
	if len(reread.Pages[0].EditableTexts) != 1 || reread.Pages[0].EditableTexts[0].Content != "Hello" {
		t.Fatalf("texts = %v", reread.Pages[0].EditableTexts)
	}
	if len(reread.UsedPhotos) != 1 || reread.UsedPhotos[0].CreationDate != "2026-02-10T08:00:00Z" {
		t.Fatalf("used photos = %v", reread.UsedPhotos)
	}
}

func TestProjectLifecycle(t *testing.T) {
	handler := newTestHandler(t)
	user := asUser(t, "user-1")
	projectID := createProject(t, handler, user)

	rec := doRequest(t, handler, http.MethodGet, "/projects", "", user)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listing struct {
		Projects []projectPayload `json:"projects"`
	}
	decodeResponse(t, rec, &listing)
	if len(listing.Projects) != 1 || listing.Projects[0].ID != projectID {
		t.Fatalf("listing = %v", listing.Projects)
	}

	rec = doRequest(t, handler, http.MethodDelete, "/projects/"+projectID, "", user)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/projects/"+projectID, "", user)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted status = %d, want 404", rec.Code)
	}
}

func TestTemplateEndpoints(t *testing.T) {
	handler := newTestHandler(t)
	guest := asGuest("guest-1")

	rec := doRequest(t, handler, http.MethodGet, "/templates?type=print", "", guest)
	if rec.Code != http.StatusOK {
		t.Fatalf("list templates status = %d", rec.Code)
	}
	var listing struct {
		Templates []templatePayload `json:"templates"`
	}
	decodeResponse(t, rec, &listing)
	if len(listing.Templates) != 1 || listing.Templates[0].ID != "template-retro" {
		t.Fatalf("templates = %v", listing.Templates)
	}

	projectID := createProject(t, handler, guest)
	rec = doRequest(t, handler, http.MethodGet, "/edit/"+projectID+"/template", "", guest)
	if rec.Code != http.StatusOK {
		t.Fatalf("project template status = %d", rec.Code)
	}
	var template templatePayload
	decodeResponse(t, rec, &template)
	if template.ID != "template-retro" || len(template.PageDefinitions) != 2 {
		t.Fatalf("template = %+v", template)
	}
}
