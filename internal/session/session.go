// Package session keeps per-login state (cart, pending payment) outside the
// relational store. Clients hold a signed token naming their session id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"campus-canteen/internal/domain"
)

var ErrNotFound = errors.New("session not found")

// State is everything the server remembers about one login.
type State struct {
	ID             string                 `json:"id"`
	Username       string                 `json:"username"`
	Role           domain.Role            `json:"role"`
	Cart           domain.Cart            `json:"cart"`
	PendingPayment *domain.PendingPayment `json:"pending_payment,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func New(user domain.User) *State {
	return &State{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *State) IsOwner() bool { return s.Role == domain.RoleOwner }

// Store persists session state for at most the configured TTL.
type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, st *State) error
	Delete(ctx context.Context, id string) error
}
