package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Username string
	Role     Role
}

// Role del usuario autenticado. Por ahora solo existe el panel de administración.
type Role string

const (
	RoleAdmin Role = "admin"
)

func (c Claims) IsAdmin() bool {
	return c.UserID != "" && c.Role == RoleAdmin
}
