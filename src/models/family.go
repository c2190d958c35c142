package models

import "time"

const (
	RolePrincipal   = "principal"
	RoleCoPrincipal = "co-principal"
	RolePartner     = "partner"
	RoleMember      = "member"
	RoleObserver    = "observer"
)

type Family struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	OwnerID   int            `json:"owner_id"`
	Members   []FamilyMember `json:"members,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type FamilyMember struct {
	FamilyID  string    `json:"family_id"`
	UserID    int       `json:"user_id"`
	Role      string    `json:"role"`
	CanEdit   bool      `json:"can_edit"`
	CanDelete bool      `json:"can_delete"`
	CanInvite bool      `json:"can_invite"`
	JoinedAt  time.Time `json:"joined_at"`
}

func ValidFamilyRole(role string) bool {
	switch role {
	case RolePrincipal, RoleCoPrincipal, RolePartner, RoleMember, RoleObserver:
		return true
	}
	return false
}

// PermissionsForRole maps a role to its permission flags. Observers are
// read-only; only principals may remove members.
func PermissionsForRole(role string) (canEdit, canDelete, canInvite bool) {
	switch role {
	case RolePrincipal:
		return true, true, true
	case RoleCoPrincipal:
		return true, false, true
	case RolePartner:
		return true, false, false
	case RoleMember:
		return true, false, false
	case RoleObserver:
		return false, false, false
	}
	return false, false, false
}
