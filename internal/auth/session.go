package auth

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

const sessionCookieName = "bookmyroom_session"

// SessionManager signs and encrypts the browser session cookie set after a
// successful OAuth login. API clients use the bearer token instead; both
// paths resolve to the same user.
type SessionManager struct {
	sc *securecookie.SecureCookie
}

func NewSessionManager(hashKey, blockKey []byte) *SessionManager {
	// A nil block key disables encryption but keeps the HMAC signature,
	// which is all the cookie needs; it only carries a user id.
	if len(blockKey) == 0 {
		blockKey = nil
	}
	return &SessionManager{sc: securecookie.New(hashKey, blockKey)}
}

func (s *SessionManager) SetUserID(w http.ResponseWriter, userID string) error {
	encoded, err := s.sc.Encode(sessionCookieName, map[string]string{"uid": userID})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *SessionManager) UserID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	value := map[string]string{}
	if err := s.sc.Decode(sessionCookieName, c.Value, &value); err != nil {
		return "", false
	}
	uid := value["uid"]
	if uid == "" {
		return "", false
	}
	return uid, true
}

func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
