package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	identityCtxKey    = ctxKey("identity")
)

// Identity is the authenticated operator attached to a request: the account
// id plus the capability set resolved once at the boundary.
type Identity struct {
	UserID       uint
	Capabilities CapabilitySet
}

// IdentityResolver loads the capability set for a session's user and reports
// whether the user still exists. Set during app bootstrap via
// SetIdentityResolver; a session for a vanished account is treated as
// unauthenticated.
type IdentityResolver func(ctx context.Context, uid uint) (CapabilitySet, bool)

var resolver IdentityResolver

// SetIdentityResolver configures the resolver used by Middleware.
func SetIdentityResolver(r IdentityResolver) { resolver = r }

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

// CreateSession sets a signed cookie with the user id.
func CreateSession(w http.ResponseWriter, userID uint) {
	uidStr := strconv.FormatUint(uint64(userID), 10)
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(uidStr))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    uidStr + "." + sig,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie signature and returns the user id.
func ParseSession(r *http.Request) (uint, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return 0, false
	}
	uidStr, sig := parts[0], parts[1]
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(uidStr))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return 0, false
	}
	id64, err := strconv.ParseUint(uidStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id64), true
}

// WithIdentity stores the identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext extracts the authenticated identity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityCtxKey)
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Middleware parses the session cookie, resolves the user's capabilities
// once, and attaches the identity to the request context. Requests without
// a valid session pass through unauthenticated.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := ParseSession(r); ok {
			caps := CapabilitySet(nil)
			exists := true
			if resolver != nil {
				caps, exists = resolver(r.Context(), uid)
			}
			if exists {
				r = r.WithContext(WithIdentity(r.Context(), Identity{UserID: uid, Capabilities: caps}))
			} else {
				// Session refers to a deleted account: drop it.
				ClearSession(w)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCapability rejects requests whose identity lacks the capability.
// Unauthenticated requests get 401, authenticated-but-unauthorized get 403.
func RequireCapability(cap Capability, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		if !id.Capabilities.Has(cap) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
