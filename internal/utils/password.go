package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored in users.password_hash.
// The cost comes from BCRYPT_COST so tests can run at the cheap minimum
// while production picks something slower.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash.  Callers
// map a false return onto the generic invalid-credentials response, never
// a more specific failure.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
