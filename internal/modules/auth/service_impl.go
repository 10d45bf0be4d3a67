package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/user"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/identity"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/logging"
)

// Shops is the part of the shop service signup and login depend on.
type Shops interface {
	GetBySlug(ctx context.Context, slug, device string) (*shop.Shop, error)
	CreateShop(ctx context.Context, ownerID uuid.UUID, name string) (*shop.Shop, error)
	SlugForOwner(ctx context.Context, ownerID uuid.UUID) (string, error)
}

type service struct {
	users  user.Service
	shops  Shops
	tokens *identity.Issuer
	log    zerolog.Logger
}

// NewService creates a new auth service.
func NewService(users user.Service, shops Shops, tokens *identity.Issuer) Service {
	return &service{users: users, shops: shops, tokens: tokens, log: logging.For("auth")}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	if err := user.ValidatePassword(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.ShopName)
	if name == "" {
		return nil, shop.ErrNameRequired
	}
	slug := shop.GenerateSlug(name)
	if slug == "" {
		return nil, shop.ErrInvalidName
	}
	// Checked up front so a taken name does not leave an account without a shop.
	if _, err := s.shops.GetBySlug(ctx, slug, ""); err == nil {
		return nil, shop.ErrSlugTaken
	} else if !errors.Is(err, shop.ErrNotFound) {
		return nil, err
	}

	u, err := s.users.RegisterUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	sh, err := s.shops.CreateShop(ctx, u.ID, name)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", u.ID.String()).Msg("shop creation failed after signup")
		return nil, err
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.ID.String()).Str("slug", sh.Slug).Msg("owner signed up")
	return &Session{Token: token, UserID: u.ID, Slug: sh.Slug}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	slug, err := s.shops.SlugForOwner(ctx, u.ID)
	if err != nil && !errors.Is(err, shop.ErrNotFound) {
		return nil, err
	}
	return &Session{Token: token, UserID: u.ID, Slug: slug}, nil
}
