package model

import "time"

// Role is the closed set of access levels. It is stored as text with a CHECK
// constraint and modeled here as a tagged string set.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role name from user or CSV input.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleViewer, RoleEmployee, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// CanBook reports whether the role may create and cancel its own reservations.
func (r Role) CanBook() bool {
	return r == RoleEmployee || r == RoleAdmin
}

type Building struct {
	ID      string
	Address string
	City    string
}

type Room struct {
	ID         string
	RoomNumber string
	Capacity   int
	Floor      int
	BuildingID string
}

type User struct {
	ID          string
	Name        string
	Email       string
	Role        Role
	BuildingID  *string
	GitHubLogin string
	CreatedAt   time.Time
}

// Reservation holds absolute instants only. Wall-clock presentation is the
// viewer's concern; the stored range is timezone-independent. Reservations
// are immutable: editing is cancel plus recreate.
type Reservation struct {
	ID        string
	RoomID    string
	UserID    string
	StartAt   time.Time
	EndAt     time.Time
	CreatedAt time.Time
}
