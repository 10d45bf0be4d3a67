package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/user"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/identity"
)

type fakeUsers struct {
	mu       sync.Mutex
	byEmail  map[string]*user.User
	password map[uuid.UUID]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*user.User{}, password: map[uuid.UUID]string{}}
}

func (f *fakeUsers) RegisterUser(_ context.Context, email, password string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = user.NormalizeEmail(email)
	if _, ok := f.byEmail[email]; ok {
		return nil, user.ErrEmailTaken
	}
	u := &user.User{ID: uuid.New(), Email: email}
	f.byEmail[email] = u
	f.password[u.ID] = password
	return u, nil
}

func (f *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUsers) Authenticate(_ context.Context, email, password string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[user.NormalizeEmail(email)]
	if !ok || f.password[u.ID] != password {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ResetPassword(context.Context, uuid.UUID, user.ResetPasswordRequest) error {
	return nil
}

type fakeShops struct {
	mu     sync.Mutex
	bySlug map[string]*shop.Shop
}

func newFakeShops() *fakeShops {
	return &fakeShops{bySlug: map[string]*shop.Shop{}}
}

func (f *fakeShops) GetBySlug(_ context.Context, slug, _ string) (*shop.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sh, ok := f.bySlug[slug]
	if !ok {
		return nil, shop.ErrNotFound
	}
	return sh, nil
}

func (f *fakeShops) CreateShop(_ context.Context, ownerID uuid.UUID, name string) (*shop.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slug := shop.GenerateSlug(name)
	if _, ok := f.bySlug[slug]; ok {
		return nil, shop.ErrSlugTaken
	}
	sh := &shop.Shop{ID: uuid.New(), OwnerUserID: ownerID, Slug: slug, ShopName: name}
	f.bySlug[slug] = sh
	return sh, nil
}

func (f *fakeShops) SlugForOwner(_ context.Context, ownerID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sh := range f.bySlug {
		if sh.OwnerUserID == ownerID {
			return sh.Slug, nil
		}
	}
	return "", shop.ErrNotFound
}

func signup(email, shopName string) SignupRequest {
	return SignupRequest{Email: email, Password: "secret1", ConfirmPassword: "secret1", ShopName: shopName}
}

func TestSignupCreatesShopAndToken(t *testing.T) {
	issuer := identity.NewIssuer("test-secret")
	svc := NewService(newFakeUsers(), newFakeShops(), issuer)

	sess, err := svc.Signup(context.Background(), signup("owner@example.com", "Tea House"))
	require.NoError(t, err)
	assert.Equal(t, "tea-house", sess.Slug)

	id, err := issuer.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, id)
}

func TestSignupRejectsTakenShopBeforeCreatingUser(t *testing.T) {
	users := newFakeUsers()
	svc := NewService(users, newFakeShops(), identity.NewIssuer("s"))
	ctx := context.Background()

	_, err := svc.Signup(ctx, signup("a@example.com", "Tea House"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signup("b@example.com", "tea  house!"))
	assert.ErrorIs(t, err, shop.ErrSlugTaken)
	assert.NotContains(t, users.byEmail, "b@example.com")
}

func TestSignupValidation(t *testing.T) {
	svc := NewService(newFakeUsers(), newFakeShops(), identity.NewIssuer("s"))
	ctx := context.Background()

	req := signup("a@example.com", "Tea House")
	req.ConfirmPassword = "other"
	_, err := svc.Signup(ctx, req)
	assert.ErrorIs(t, err, user.ErrPasswordMismatch)

	_, err = svc.Signup(ctx, signup("a@example.com", "  "))
	assert.ErrorIs(t, err, shop.ErrNameRequired)

	_, err = svc.Signup(ctx, signup("a@example.com", "!!!"))
	assert.ErrorIs(t, err, shop.ErrInvalidName)
}

func TestLogin(t *testing.T) {
	users := newFakeUsers()
	shops := newFakeShops()
	svc := NewService(users, shops, identity.NewIssuer("s"))
	ctx := context.Background()

	_, err := svc.Signup(ctx, signup("owner@example.com", "Tea House"))
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "Owner@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tea-house", sess.Slug)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.Login(ctx, "owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// An owner without a shop still logs in.
	_, err = users.RegisterUser(ctx, "lonely@example.com", "secret1")
	require.NoError(t, err)
	sess, err = svc.Login(ctx, "lonely@example.com", "secret1")
	require.NoError(t, err)
	assert.Empty(t, sess.Slug)
}
