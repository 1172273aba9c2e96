package domain

import (
	"errors"
	"testing"
)

func TestNewOwnerIdentity(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		guestID string
		want    OwnerIdentity
		wantErr error
	}{
		{"user only", "u1", "", UserIdentity("u1"), nil},
		{"guest only", "", "g1", GuestIdentity("g1"), nil},
		{"neither", "", "", OwnerIdentity{}, ErrIdentityMissing},
		{"both", "u1", "g1", OwnerIdentity{}, ErrIdentityAmbiguous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewOwnerIdentity(tt.userID, tt.guestID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("new owner identity: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("identity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOwnerIdentityEqualDistinguishesTags(t *testing.T) {
	// Same id under different tags must not compare equal.
	if UserIdentity("42").Equal(GuestIdentity("42")) {
		t.Fatal("user and guest with same id must differ")
	}
	if !UserIdentity("42").Equal(UserIdentity("42")) {
		t.Fatal("identical user identities must match")
	}
}

func TestAuthorize(t *testing.T) {
	project := Project{ID: "p1", Owner: UserIdentity("1")}

	tests := []struct {
		name    string
		caller  OwnerIdentity
		wantErr error
	}{
		{"owner allowed", UserIdentity("1"), nil},
		{"other user denied", UserIdentity("2"), ErrAccessDenied},
		{"guest denied", GuestIdentity("g"), ErrAccessDenied},
		{"guest with same id denied", GuestIdentity("1"), ErrAccessDenied},
		{"missing identity", OwnerIdentity{}, ErrIdentityMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(project, tt.caller)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("authorize: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizeGuestOwner(t *testing.T) {
	project := Project{ID: "p1", Owner: GuestIdentity("g-7")}
	if err := Authorize(project, GuestIdentity("g-7")); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := Authorize(project, UserIdentity("g-7")); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("err = %v, want %v", err, ErrAccessDenied)
	}
}
