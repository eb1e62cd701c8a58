package auth

import "time"

type TokenCodec interface {
	Issue(subjectID uint32, subjectName string, lifetime time.Duration) (string, error)
	Validate(token string) (*TokenClaims, error)
}

type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) bool
}
