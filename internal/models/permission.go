package models

import "fmt"

// PermCategory classifies the visibility of the file a permission covers.
type PermCategory int

const (
	PermDiscoverable PermCategory = iota + 1
	PermHidden
)

func (c PermCategory) String() string {
	switch c {
	case PermDiscoverable:
		return "discoverable"
	case PermHidden:
		return "hidden"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// PermType is the kind of access being requested.
type PermType int

const (
	PermRead PermType = iota + 1
	PermWrite
)

func (t PermType) String() string {
	switch t {
	case PermRead:
		return "read"
	case PermWrite:
		return "write"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Permission describes one capability a requestor wants over one path.
// Permissions are immutable; a fresh value is built for every request.
type Permission struct {
	Requestor string       `json:"requestor"`
	Path      string       `json:"path"`
	Category  PermCategory `json:"category"`
	PermType  PermType     `json:"permType"`
}

// NewPermission builds a permission for a requestor domain and path.
func NewPermission(requestor, path string, category PermCategory, permType PermType) Permission {
	return Permission{
		Requestor: requestor,
		Path:      path,
		Category:  category,
		PermType:  permType,
	}
}

// String renders the permission for human-readable denial messages.
func (p Permission) String() string {
	return fmt.Sprintf("%s %s file at %q requested by %q",
		p.PermType, p.Category, p.Path, p.Requestor)
}

// CheckPermissionsResponse is the authority's verdict on a batch of
// requested permissions.
type CheckPermissionsResponse struct {
	GrantedPermissions []Permission `json:"grantedPermissions"`
	FailedPermissions  []Permission `json:"failedPermissions"`
}

// Contains reports whether perm appears in the given list.
func Contains(perms []Permission, perm Permission) bool {
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}
