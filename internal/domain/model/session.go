package model

// Role tags a session variant.
type Role string

const (
	RoleUser       Role = "user"
	RoleStallOwner Role = "stall_owner"
	RoleAdmin      Role = "admin"
)

// Session is an authenticated principal. The set of implementations is closed.
type Session interface {
	Role() Role
	Subject() string
	sealed()
}

// UserSession identifies a customer.
type UserSession struct {
	Username string
	UID      string
}

func (UserSession) Role() Role        { return RoleUser }
func (s UserSession) Subject() string { return s.Username }
func (UserSession) sealed()           {}

// StallOwnerSession identifies the owner of a single stall.
type StallOwnerSession struct {
	StallID   string
	StallName string
}

func (StallOwnerSession) Role() Role        { return RoleStallOwner }
func (s StallOwnerSession) Subject() string { return s.StallID }
func (StallOwnerSession) sealed()           {}

// AdminSession identifies an operator.
type AdminSession struct {
	Username string
}

func (AdminSession) Role() Role        { return RoleAdmin }
func (s AdminSession) Subject() string { return s.Username }
func (AdminSession) sealed()           {}
