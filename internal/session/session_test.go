package session

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestResolvePassThrough(t *testing.T) {
	m := &Manager{}

	token, isNew := m.Resolve("deadbeefdeadbeefdeadbeefdeadbeef")
	assert.False(t, isNew)
	assert.Equal(t, "deadbeefdeadbeefdeadbeefdeadbeef", token)
}

func TestResolveMints(t *testing.T) {
	m := &Manager{}

	first, isNew := m.Resolve("")
	require.True(t, isNew)
	assert.Regexp(t, hexToken, first)

	second, _ := m.Resolve("")
	assert.Regexp(t, hexToken, second)
	assert.NotEqual(t, first, second)
}

func TestCookie(t *testing.T) {
	m := &Manager{}

	c := m.Cookie("deadbeefdeadbeefdeadbeefdeadbeef")
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "deadbeefdeadbeefdeadbeefdeadbeef", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7*24*60*60, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestCookieSecure(t *testing.T) {
	m := &Manager{secure: true}
	assert.True(t, m.Cookie("deadbeefdeadbeefdeadbeefdeadbeef").Secure)
}
