package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored secrets
const BcryptCost = 12

// HashSecret hashes a secret such as the site preview key (`collectivectl hash-preview-key`)
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckSecret compares a secret with its bcrypt hash
func CheckSecret(hashed, secret string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}
