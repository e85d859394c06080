package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt digest from the plaintext password. A fresh
// random salt is generated on every call and embedded in the digest together
// with the cost factor, so verification needs no out-of-band salt storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword reports whether the plaintext password matches the stored
// digest. The comparison is constant time; a wrong password is not an error,
// just false.
func CheckPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
