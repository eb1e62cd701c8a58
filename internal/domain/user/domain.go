package user

import "errors"

var ErrNotFound = errors.New("user not found")

// Record is a user as the store sees it. SecretHash is never plaintext.
type Record struct {
	ID         uint32 `json:"id"`
	Identifier string `json:"identifier"`
	SecretHash string `json:"-"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
}

// Seed is a plaintext user definition hashed once at startup.
type Seed struct {
	ID         uint32 `mapstructure:"id"`
	Identifier string `mapstructure:"identifier"`
	Secret     string `mapstructure:"secret"`
	Role       string `mapstructure:"role"`
	Avatar     string `mapstructure:"avatar"`
}
