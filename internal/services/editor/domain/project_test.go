package domain

import (
	"errors"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func staticID(value string) func() (string, error) {
	return func() (string, error) { return value, nil }
}

func TestCreateProject(t *testing.T) {
	project, err := CreateProject(CreateProjectInput{
		Owner:      UserIdentity("u1"),
		TemplateID: "tpl-1",
	}, fixedNow, staticID("proj-1"))
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if project.ID != "proj-1" {
		t.Fatalf("id = %q, want %q", project.ID, "proj-1")
	}
	if !project.Owner.Equal(UserIdentity("u1")) {
		t.Fatalf("owner = %v, want user u1", project.Owner)
	}
	if project.Status != ProjectStatusDraft {
		t.Fatalf("status = %q, want %q", project.Status, ProjectStatusDraft)
	}
	if !project.CreatedAt.Equal(fixedNow()) {
		t.Fatalf("created_at = %v, want %v", project.CreatedAt, fixedNow())
	}
	if project.IsDeleted() {
		t.Fatal("new project must not be deleted")
	}
}

func TestCreateProjectTrimsTemplateID(t *testing.T) {
	project, err := CreateProject(CreateProjectInput{
		Owner:      GuestIdentity("g1"),
		TemplateID: "  tpl-1  ",
	}, fixedNow, staticID("proj-1"))
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.TemplateID != "tpl-1" {
		t.Fatalf("template id = %q, want %q", project.TemplateID, "tpl-1")
	}
}

func TestCreateProjectRequiresOwner(t *testing.T) {
	_, err := CreateProject(CreateProjectInput{TemplateID: "tpl-1"}, fixedNow, staticID("proj-1"))
	if !errors.Is(err, ErrIdentityMissing) {
		t.Fatalf("err = %v, want %v", err, ErrIdentityMissing)
	}
}

func TestCreateProjectRequiresTemplate(t *testing.T) {
	_, err := CreateProject(CreateProjectInput{Owner: UserIdentity("u1"), TemplateID: "   "}, fixedNow, staticID("proj-1"))
	if !errors.Is(err, ErrEmptyTemplateID) {
		t.Fatalf("err = %v, want %v", err, ErrEmptyTemplateID)
	}
}

func TestIsValidProjectStatus(t *testing.T) {
	if !IsValidProjectStatus(ProjectStatusDraft) || !IsValidProjectStatus(ProjectStatusInCart) {
		t.Fatal("known statuses must validate")
	}
	if IsValidProjectStatus("ordered") {
		t.Fatal("unknown status must not validate")
	}
}
