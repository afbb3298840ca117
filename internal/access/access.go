// Package access holds the role predicates that decide what a session may
// see and change.
package access

import "nursery-service/internal/schema"

// Role is an employee's role within a business.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleManager || r == RoleEmployee
}

func (r Role) supervisor() bool {
	return r == RoleOwner || r == RoleManager
}

// CanEditData reports whether r may add, edit or delete records.
func CanEditData(r Role) bool { return r.supervisor() }

// CanEditTables reports whether r may change table and column metadata.
func CanEditTables(r Role) bool { return r.supervisor() }

// CanManageUsers reports whether r may manage employees.
func CanManageUsers(r Role) bool { return r == RoleOwner }

// CanViewPricing reports whether r may see restricted pricing data.
func CanViewPricing(r Role) bool { return r.supervisor() }

// CanEditPricing reports whether r may change pricing data.
func CanEditPricing(r Role) bool { return r.supervisor() }

// CanViewAllTimeEntries reports whether r may see every employee's time entries.
func CanViewAllTimeEntries(r Role) bool { return r.supervisor() }

// CanEditTimeEntries reports whether r may correct time entries.
func CanEditTimeEntries(r Role) bool { return r.supervisor() }

// HasRole reports whether r is one of allowed.
func HasRole(r Role, allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// DisplayName returns the label shown for r.
func DisplayName(r Role) string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleManager:
		return "Manager"
	case RoleEmployee:
		return "Employee"
	}
	return string(r)
}

// CanViewTable reports whether r may list and read records of t.
func CanViewTable(r Role, t schema.Table) bool {
	if t.Restricted {
		return CanViewPricing(r)
	}
	return r.Valid()
}

// CanEditTable reports whether r may write records of t.
func CanEditTable(r Role, t schema.Table) bool {
	if t.Restricted {
		return CanEditPricing(r)
	}
	return CanEditData(r)
}
