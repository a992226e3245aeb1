package domain

import "time"

// The closed set of roles. Seeded once at startup and immutable thereafter.
const (
	RoleAdmin        = "Admin"
	RoleSalesManager = "Sales Manager"
	RoleSalesAdvisor = "Sales Advisor"
)

// AllRoles lists every role the system knows about, in seeding order.
var AllRoles = []string{RoleAdmin, RoleSalesManager, RoleSalesAdvisor}

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
