package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt digest from a plaintext password.
// Each call generates a fresh salt, so equal plaintexts hash differently.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches the stored digest. Malformed
// digests simply fail the check; this never panics on bad input.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
