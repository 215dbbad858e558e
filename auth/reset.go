package auth

import (
	"crypto/hmac"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// Password reset tokens are stateless: the signature covers the user id, the issue time,
// the current password hash and the last login, so a token dies as soon as the password
// changes or the user signs in.

// EncodeUID renders a user id for use in a reset URL.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(s string) (uint, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// MakeResetToken issues a token for userID bound to its current password hash and last login.
// lastLogin is nil for a user who never signed in.
func MakeResetToken(userID uint, passwordHash string, lastLogin *time.Time, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 36)
	return ts + "-" + resetSignature(userID, passwordHash, lastLogin, ts)
}

// CheckResetToken verifies token against the user's current password hash and last login.
func CheckResetToken(token string, userID uint, passwordHash string, lastLogin *time.Time, now time.Time, timeout time.Duration) error {
	ts, sig, ok := strings.Cut(token, "-")
	if !ok || ts == "" || sig == "" {
		return ErrInvalidToken
	}
	issued, err := strconv.ParseInt(ts, 36, 64)
	if err != nil {
		return ErrInvalidToken
	}
	expected := resetSignature(userID, passwordHash, lastLogin, ts)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return ErrInvalidToken
	}
	if now.Sub(time.Unix(issued, 0)) > timeout {
		return ErrInvalidToken
	}
	return nil
}

// resetSignature signs the login at second precision, which survives every database round trip.
func resetSignature(userID uint, passwordHash string, lastLogin *time.Time, ts string) string {
	login := ""
	if lastLogin != nil {
		login = strconv.FormatInt(lastLogin.Unix(), 36)
	}
	return sign("reset", strconv.FormatUint(uint64(userID), 10), passwordHash, login, ts)
}
