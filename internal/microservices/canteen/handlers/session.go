package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"campus-canteen/internal/config"
	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/service"
	"campus-canteen/internal/session"
)

var errNoSession = errors.New("no session")

type ctxKey struct{}

func stateFrom(ctx context.Context) *session.State {
	st, _ := ctx.Value(ctxKey{}).(*session.State)
	return st
}

func actorOf(st *session.State) service.Actor {
	return service.Actor{Username: st.Username, Role: st.Role}
}

// Sessions resolves the caller from a cookie or bearer token and gates routes
// by role.
type Sessions struct {
	store  session.Store
	signer *session.Signer
	cfg    config.SessionConfig
}

func NewSessions(store session.Store, signer *session.Signer, cfg config.SessionConfig) *Sessions {
	return &Sessions{store: store, signer: signer, cfg: cfg}
}

func (s *Sessions) token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func (s *Sessions) resolve(r *http.Request) (*session.State, error) {
	tok := s.token(r)
	if tok == "" {
		return nil, errNoSession
	}
	claims, err := s.signer.Parse(tok)
	if err != nil {
		return nil, errNoSession
	}
	st, err := s.store.Load(r.Context(), claims.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, errNoSession
	}
	if err != nil {
		return nil, err
	}
	if st.Username != claims.Subject {
		return nil, errNoSession
	}
	return st, nil
}

// Start stores a new session for u and sets the cookie.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request, u domain.User) (string, time.Time, error) {
	st := session.New(u)
	if err := s.store.Save(r.Context(), st); err != nil {
		return "", time.Time{}, err
	}
	tok, exp, err := s.signer.Issue(st)
	if err != nil {
		return "", time.Time{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    tok,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return tok, exp, nil
}

func (s *Sessions) End(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
	})
	st, err := s.resolve(r)
	if errors.Is(err, errNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.store.Delete(r.Context(), st.ID)
}

func (s *Sessions) Save(ctx context.Context, st *session.State) error {
	return s.store.Save(ctx, st)
}

func (s *Sessions) require(next http.HandlerFunc, roles ...domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := s.resolve(r)
		if errors.Is(err, errNoSession) {
			writeProblem(w, http.StatusUnauthorized, "unauthenticated", "please log in", apiPrefix+"/auth/login")
			return
		}
		if err != nil {
			writeError(w, r, err, apiPrefix+"/auth/login")
			return
		}
		if !hasRole(st.Role, roles) {
			home := apiPrefix + "/menu"
			if st.IsOwner() {
				home = apiPrefix + "/owner/dashboard"
			}
			writeProblem(w, http.StatusForbidden, string(domain.KindAuthorization), "you are not allowed to access this page", home)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, st)))
	}
}

func hasRole(role domain.Role, roles []domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *Sessions) User(next http.HandlerFunc) http.HandlerFunc {
	return s.require(next, domain.RoleUser)
}

func (s *Sessions) Owner(next http.HandlerFunc) http.HandlerFunc {
	return s.require(next, domain.RoleOwner)
}

func (s *Sessions) Any(next http.HandlerFunc) http.HandlerFunc {
	return s.require(next, domain.RoleUser, domain.RoleOwner)
}
