package session

import (
	"encoding/hex"
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/do"
)

const CookieName = "session"

const maxAge = 7 * 24 * 60 * 60

type Manager struct {
	secure bool
}

func NewManager(i *do.Injector) (*Manager, error) {
	secure := do.MustInvokeNamed[bool](i, "cookie_secure")
	return &Manager{secure: secure}, nil
}

// Resolve returns the session token for a request, minting a fresh one when
// the request carried none.
func (m *Manager) Resolve(incoming string) (string, bool) {
	if incoming != "" {
		return incoming, false
	}
	u := uuid.New()
	return hex.EncodeToString(u[:]), true
}

// Cookie builds the cookie that hands a minted token back to the client.
func (m *Manager) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
