package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/config"
	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/repository"
)

type Hasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) bool
}

type BcryptHasher struct{ Cost int }

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

func (BcryptHasher) Compare(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

type IdentityServiceInterface interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
	// Authenticate reports false for an unknown user and for a wrong password alike.
	Authenticate(ctx context.Context, username, password string) (domain.User, bool, error)
	// BootstrapOwner makes sure exactly one owner account exists.
	BootstrapOwner(ctx context.Context) error
}

type IdentityService struct {
	db     repository.UserRepositoryInterface
	hasher Hasher
	owner  config.OwnerConfig
	log    *logger.Logger
}

func NewIdentityService(db repository.UserRepositoryInterface, hasher Hasher, owner config.OwnerConfig, lg *logger.Logger) IdentityServiceInterface {
	return &IdentityService{db: db, hasher: hasher, owner: owner, log: lg}
}

func (s *IdentityService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, domain.Validation("username and password are required")
	}
	if strings.EqualFold(username, s.owner.Username) {
		return domain.User{}, domain.Conflict("username already exists")
	}
	if _, found, err := s.db.GetUserByUsername(ctx, username); err != nil {
		return domain.User{}, err
	} else if found {
		return domain.User{}, domain.Conflict("username already exists")
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.db.CreateUser(ctx, domain.User{Username: username, PasswordDigest: digest, Role: domain.RoleUser})
	if errors.Is(err, repository.ErrDuplicate) {
		return domain.User{}, domain.Conflict("username already exists")
	}
	if err != nil {
		return domain.User{}, err
	}
	s.log.FromContext(ctx).Info("user_registered", map[string]any{"username": u.Username, "user_id": u.ID})
	return u, nil
}

func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (domain.User, bool, error) {
	u, found, err := s.db.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return domain.User{}, false, err
	}
	if !found || !s.hasher.Compare(u.PasswordDigest, password) {
		return domain.User{}, false, nil
	}
	return u, true, nil
}

func (s *IdentityService) BootstrapOwner(ctx context.Context) error {
	owners, err := s.db.ListUsersByRole(ctx, domain.RoleOwner)
	if err != nil {
		return err
	}
	if len(owners) == 0 {
		digest, err := s.hasher.Hash(s.owner.Password)
		if err != nil {
			return err
		}
		u, err := s.db.CreateUser(ctx, domain.User{Username: s.owner.Username, PasswordDigest: digest, Role: domain.RoleOwner})
		if err != nil {
			return fmt.Errorf("create owner %s: %w", s.owner.Username, err)
		}
		s.log.Info("owner_created", map[string]any{"username": u.Username})
		return nil
	}
	for _, extra := range owners[1:] {
		if err := s.db.DeleteUser(ctx, extra.ID); err != nil {
			return err
		}
		s.log.Warn("extra_owner_removed", map[string]any{"username": extra.Username, "user_id": extra.ID})
	}
	return nil
}
