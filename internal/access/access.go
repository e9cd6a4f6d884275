// Package access maps user roles to the permissions the library grants them.
package access

// Role is stored on the user record and carried in access tokens.
type Role string

const (
	RoleMember    Role = "MEMBER"
	RoleLibrarian Role = "LIBRARIAN"
)

// Permission names a guarded action.
type Permission string

const (
	// PermMarkReturned allows closing a loan.
	PermMarkReturned Permission = "can_mark_returned"
	// PermManageCatalog allows creating, editing and deleting catalog records.
	PermManageCatalog Permission = "can_manage_catalog"
	// PermManageLoans allows lending and renewing copies.
	PermManageLoans Permission = "can_manage_loans"
)

var grants = map[Role][]Permission{
	RoleLibrarian: {PermMarkReturned, PermManageCatalog, PermManageLoans},
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleLibrarian
}

// Has reports whether role r carries permission p.
func (r Role) Has(p Permission) bool {
	for _, g := range grants[r] {
		if g == p {
			return true
		}
	}
	return false
}
