package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnauthorized is returned when login fails or when a request does not
// carry the active session token.
var ErrUnauthorized = errors.New("session: unauthorised")

// tokenBytes is the entropy behind a generated session token; the token
// itself is the hex encoding, 32 characters.
const tokenBytes = 16

// Options configures a Guard.
type Options struct {
	// Password is the operator password checked by Login.
	Password string

	// Token, when non-empty, is issued verbatim by every successful
	// login instead of a random value. Useful for test rigs and
	// scripted clients that expect a fixed credential.
	Token string
}

// Guard tracks the single active operator session.
type Guard struct {
	mu       sync.Mutex
	password string
	fixed    string
	token    string
}

// New returns a Guard with no active session.
func New(opts Options) *Guard {
	return &Guard{
		password: opts.Password,
		fixed:    opts.Token,
	}
}

// Login checks the password and, on success, starts a new session and
// returns its token. Any previously issued token stops working. A wrong
// password returns ErrUnauthorized and leaves the current session intact.
func (g *Guard) Login(password string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if password != g.password {
		return "", ErrUnauthorized
	}

	if g.fixed != "" {
		g.token = g.fixed
		return g.token, nil
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	g.token = token
	return token, nil
}

// Logout ends the active session. Calling it with no session is a no-op.
func (g *Guard) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.token = ""
}

// Authorize checks an Authorization header value against the active
// session. The header passes when it contains the token anywhere, which
// accepts both "Bearer <token>" and a bare token. With no active session
// every header is refused.
func (g *Guard) Authorize(header string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token == "" {
		return ErrUnauthorized
	}
	if !strings.Contains(header, g.token) {
		return ErrUnauthorized
	}
	return nil
}

// generateToken returns a cryptographically random token.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
