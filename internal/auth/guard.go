package auth

import "net/http"

// CookieName is the cookie that carries the admin session token.
const CookieName = "admin-token"

// Guard is the single verification path shared by the admission middleware
// and the per-handler checks. API routes are reachable without passing the
// middleware, so handlers must call FromRequest themselves.
type Guard struct {
	codec *TokenCodec
}

func NewGuard(codec *TokenCodec) *Guard {
	return &Guard{codec: codec}
}

// FromRequest extracts the session cookie and verifies it, returning the
// authenticated identity. A missing cookie fails the same way as a bad token.
func (g *Guard) FromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrInvalidToken
	}
	return g.codec.Verify(cookie.Value)
}
