package sessionguard

import "github.com/google/uuid"

// Identity holds the attributes of the authenticated user as reported by the
// last successful validation round trip. The zero value is the anonymous
// identity: no roles, no permissions, every check answers false.
type Identity struct {
	ID          string   `json:"id,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	RoleLabel   string   `json:"role_label,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasPermission checks if the identity carries a specific permission
func (i Identity) HasPermission(permission string) bool {
	return contains(i.Permissions, permission)
}

// HasAnyPermission checks if the identity carries at least one of the
// requested permissions (OR). False for an empty request or an empty set.
func (i Identity) HasAnyPermission(permissions []string) bool {
	for _, p := range permissions {
		if contains(i.Permissions, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if the identity carries every requested
// permission (AND). Fail-closed: an identity with no permissions at all
// answers false regardless of the request.
func (i Identity) HasAllPermissions(permissions []string) bool {
	if len(i.Permissions) == 0 {
		return false
	}
	for _, p := range permissions {
		if !contains(i.Permissions, p) {
			return false
		}
	}
	return true
}

// HasRole checks if the identity carries a specific role
func (i Identity) HasRole(role string) bool {
	return contains(i.Roles, role)
}

// UserUUID parses the identity ID as a UUID.
func (i Identity) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(i.ID)
}

// HasUserUUID reports whether UserUUID will succeed.
func (i Identity) HasUserUUID() bool {
	_, err := i.UserUUID()
	return err == nil
}

// IsAnonymous reports whether this is the default identity.
func (i Identity) IsAnonymous() bool {
	return i.ID == "" && i.DisplayName == "" && len(i.Roles) == 0 && len(i.Permissions) == 0
}

func contains(set []string, want string) bool {
	for _, have := range set {
		if have == want {
			return true
		}
	}
	return false
}
