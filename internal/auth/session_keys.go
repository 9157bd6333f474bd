package auth

// SessionKey is a typed key for session values to prevent typos and enable refactoring.
type SessionKey string

// Session keys used by the viewer.
const (
	// SessKeyUserID stores the OIDC subject the credential is filed under
	SessKeyUserID SessionKey = "user_id"
	// SessKeyState stores the Drive launch state across the OAuth round-trip
	SessKeyState SessionKey = "state"
	// SessKeyPKCEVerifier stores the PKCE verifier of a pending login
	SessKeyPKCEVerifier SessionKey = "pkce_verifier"
)

// SessionString retrieves a string value from session by key.
func SessionString(session Session, key SessionKey) (string, bool) {
	val := session.Get(string(key))
	if val == nil {
		return "", false
	}
	if s, ok := val.(string); ok {
		return s, true
	}
	return "", false
}

// SessionUserID retrieves the signed-in user's ID from session.
func SessionUserID(session Session) (string, bool) {
	id, ok := SessionString(session, SessKeyUserID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// SetSessionUserID records the signed-in user's ID.
func SetSessionUserID(session Session, userID string) {
	session.Set(string(SessKeyUserID), userID)
}

// SetSessionState stashes the raw Drive state string.
func SetSessionState(session Session, state string) {
	session.Set(string(SessKeyState), state)
}

// TakeSessionState returns the stashed Drive state and removes it from the
// session whether or not a value was present.
func TakeSessionState(session Session) (string, bool) {
	state, ok := SessionString(session, SessKeyState)
	session.Delete(string(SessKeyState))
	return state, ok
}

// SessionPKCEVerifier retrieves the verifier of a pending login.
func SessionPKCEVerifier(session Session) (string, bool) {
	return SessionString(session, SessKeyPKCEVerifier)
}

// SetSessionPKCEVerifier stores the verifier of a pending login.
func SetSessionPKCEVerifier(session Session, verifier string) {
	session.Set(string(SessKeyPKCEVerifier), verifier)
}

// ClearSessionOAuth clears OAuth-specific session data after callback.
func ClearSessionOAuth(session Session) {
	session.Delete(string(SessKeyPKCEVerifier))
}
