package service

import (
	"context"
	"testing"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/config"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func initJWT() {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 24, AdminExpirationHours: 1})
}

func TestSignupCreatesUserAndCart(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)

	user, err := svc.Users.Signup(ctx, SignupInput{Name: "Ann", Email: " Ann@Example.com ", Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, []string{jwtutil.RoleUser}, []string(user.Roles))
	assert.Equal(t, model.DefaultAvatar, user.ImgPath)
	assert.NotEqual(t, "1234", user.Password)

	cart, err := st.Carts().GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = svc.Users.Signup(ctx, SignupInput{Name: "Ann 2", Email: "ann@example.com", Password: "5678"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	cases := map[string]SignupInput{
		"no name":        {Email: "a@b.c", Password: "1234"},
		"short password": {Name: "A", Email: "a@b.c", Password: "123"},
		"long password":  {Name: "A", Email: "a@b.c", Password: "123456789"},
		"bad email":      {Name: "A", Email: "abc", Password: "1234"},
		"bad sex":        {Name: "A", Email: "a@b.c", Password: "1234", Sex: "robot"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Users.Signup(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	initJWT()
	ctx := context.Background()
	svc, _ := newTestServices(t)

	_, err := svc.Users.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@example.com", Password: "1234"})
	require.NoError(t, err)

	session, err := svc.Users.Login(ctx, "ANN@example.com", "1234")
	require.NoError(t, err)
	assert.False(t, session.IsAdmin)
	assert.Equal(t, 24*time.Hour, session.TTL)

	claims, err := jwtutil.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)

	_, err = svc.Users.Login(ctx, "ann@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Users.Login(ctx, "who@example.com", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLoginGetsShortSession(t *testing.T) {
	initJWT()
	ctx := context.Background()
	svc, st := newTestServices(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("root"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, st.Users().Create(ctx, &model.User{
		Name:     "Boss",
		Email:    "boss@example.com",
		Password: string(hash),
		Roles:    []string{jwtutil.RoleUser, jwtutil.RoleAdmin},
	}))

	session, err := svc.Users.Login(ctx, "boss@example.com", "root")
	require.NoError(t, err)
	assert.True(t, session.IsAdmin)
	assert.Equal(t, time.Hour, session.TTL)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	ann, err := svc.Users.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@example.com", Password: "1234"})
	require.NoError(t, err)
	_, err = svc.Users.Signup(ctx, SignupInput{Name: "Bob", Email: "bob@example.com", Password: "1234"})
	require.NoError(t, err)

	updated, err := svc.Users.UpdateProfile(ctx, ann.ID, ProfileInput{Name: "Anna", Sex: "female"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)
	assert.Equal(t, "female", updated.Sex)

	_, err = svc.Users.UpdateProfile(ctx, ann.ID, ProfileInput{Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Users.UpdateProfile(ctx, 999, ProfileInput{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}
