package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// User is the identity attached to a request by the auth middleware.
// Account management lives outside this service; we only carry enough
// to attribute orders and gate admin actions.
type User struct {
	ID    string `json:"id"` // UUID
	Email string `json:"email"`
	Role  string `json:"role"`
}
