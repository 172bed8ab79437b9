// Package models defines client-side data models used by the DentaCare
// client: identity records, auth payloads, chat messages and notifications.
package models

// Role is the user's role as reported by the API.
type Role string

const (
	RolePatient   Role = "patient"
	RoleStaff     Role = "staff"
	RoleClient    Role = "client"
	RoleAssistant Role = "assistant"
	RoleDentist   Role = "dentist"
)

// User is the identity record returned by login and /api/user/me. It is
// replaced wholesale, never patched.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// DisplayName returns the full name, or fallback when the name is blank.
func (u *User) DisplayName(fallback string) string {
	if u == nil || u.FullName == "" {
		return fallback
	}
	return u.FullName
}

// RegistrationRequest is the body of POST /auth/register.
type RegistrationRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
