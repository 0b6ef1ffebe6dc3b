package catalog

// Roles stored on users.
const (
	RoleMember    = "member"
	RoleLibrarian = "librarian"
)

// Permissions checked by the route guards.
const (
	// PermCanMarkReturned covers renewals, lending and returns.
	PermCanMarkReturned = "catalog.can_mark_returned"
	// PermManageRecords covers author and book create, update and delete.
	PermManageRecords = "catalog.manage_records"
)

// PermissionLabels are the human-readable permission names.
var PermissionLabels = map[string]string{
	PermCanMarkReturned: "Set book as returned",
	PermManageRecords:   "Manage authors and books",
}

// RolePermissions lists what each role is granted.
func RolePermissions() map[string][]string {
	return map[string][]string{
		RoleMember:    nil,
		RoleLibrarian: {PermCanMarkReturned, PermManageRecords},
	}
}
