package dto

// SessionDTO 는 GET /auth/session 응답이다.
type SessionDTO struct {
	User      UserDTO `json:"user"`
	ExpiresAt string  `json:"expires_at" example:"2026-11-18T00:00:00Z"`
}

type ProvidersDTO struct {
	Providers []string `json:"providers" example:"github,google"`
}
