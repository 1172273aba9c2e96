package domain

// IdentityKind discriminates the owner identity variants.
type IdentityKind int

const (
	// IdentityKindUnspecified represents an absent identity.
	IdentityKindUnspecified IdentityKind = iota
	// IdentityKindUser is an authenticated user identity.
	IdentityKindUser
	// IdentityKindGuest is an anonymous guest identity.
	IdentityKindGuest
)

// OwnerIdentity is the tagged owner variant: a user id or a guest id,
// never both and never neither once constructed through UserIdentity,
// GuestIdentity or NewOwnerIdentity.
type OwnerIdentity struct {
	kind IdentityKind
	id   string
}

// UserIdentity returns an identity for an authenticated user.
func UserIdentity(userID string) OwnerIdentity {
	return OwnerIdentity{kind: IdentityKindUser, id: userID}
}

// GuestIdentity returns an identity for an anonymous guest.
func GuestIdentity(guestID string) OwnerIdentity {
	return OwnerIdentity{kind: IdentityKindGuest, id: guestID}
}

// NewOwnerIdentity builds an identity from raw transport values.
// Exactly one of userID and guestID must be non-empty.
func NewOwnerIdentity(userID, guestID string) (OwnerIdentity, error) {
	switch {
	case userID == "" && guestID == "":
		return OwnerIdentity{}, ErrIdentityMissing
	case userID != "" && guestID != "":
		return OwnerIdentity{}, ErrIdentityAmbiguous
	case userID != "":
		return UserIdentity(userID), nil
	default:
		return GuestIdentity(guestID), nil
	}
}

// Kind returns the identity variant tag.
func (o OwnerIdentity) Kind() IdentityKind {
	return o.kind
}

// ID returns the user or guest id.
func (o OwnerIdentity) ID() string {
	return o.id
}

// IsZero reports whether the identity is absent.
func (o OwnerIdentity) IsZero() bool {
	return o.kind == IdentityKindUnspecified || o.id == ""
}

// Equal reports whether two identities carry the same tag and id.
func (o OwnerIdentity) Equal(other OwnerIdentity) bool {
	return o.kind == other.kind && o.id == other.id
}

// Authorize checks that caller owns the project. It fails closed: an absent
// caller identity is rejected before the ownership comparison runs.
func Authorize(project Project, caller OwnerIdentity) error {
	if caller.IsZero() {
		return ErrIdentityMissing
	}
	if !project.Owner.Equal(caller) {
		return ErrAccessDenied
	}
	return nil
}
