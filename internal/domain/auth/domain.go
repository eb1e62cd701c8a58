package auth

import "time"

type TokenClaims struct {
	SubjectID   uint32
	SubjectName string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Session is the pair handed out at login. Both tokens share the claims shape
// and differ only in lifetime.
type Session struct {
	AccessToken  string
	RefreshToken string
}
