package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/jwtutil"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 4
	maxPasswordLen = 8
)

// UserService handles accounts and sessions
type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Sex      string
}

// Session is the result of a successful login
type Session struct {
	Token   string
	TTL     time.Duration
	User    *model.User
	IsAdmin bool
}

type ProfileInput struct {
	Name    string
	Email   string
	Sex     string
	ImgPath string
}

func validSex(sex string) bool {
	switch sex {
	case "", "male", "female", "other":
		return true
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a USER account together with its empty cart
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	switch {
	case name == "":
		return nil, invalid("name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, invalid("a valid email is required")
	case len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen:
		return nil, invalid("password must be %d to %d characters", minPasswordLen, maxPasswordLen)
	case !validSex(in.Sex):
		return nil, invalid("sex must be male, female or other")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Roles:    []string{jwtutil.RoleUser},
		Sex:      in.Sex,
		ImgPath:  model.DefaultAvatar,
	}
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return tx.Carts().Create(ctx, &model.Cart{UserID: user.ID})
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and signs a session token
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		prometheus.RecordLogin("unknown_user")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		prometheus.RecordLogin("bad_password")
		return nil, ErrInvalidCredentials
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return nil, err
	}

	prometheus.RecordLogin("success")
	return &Session{
		Token:   token,
		TTL:     jwtutil.TTL(user.Roles),
		User:    user,
		IsAdmin: (&jwtutil.UserClaims{Roles: user.Roles}).HasAnyRole(jwtutil.RoleAdmin),
	}, nil
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("user")
	}
	return user, err
}

// UpdateProfile overwrites the non-empty fields of in
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.Email != "" {
		email := normalizeEmail(in.Email)
		if !strings.Contains(email, "@") {
			return nil, invalid("a valid email is required")
		}
		user.Email = email
	}
	if in.Sex != "" {
		if !validSex(in.Sex) {
			return nil, invalid("sex must be male, female or other")
		}
		user.Sex = in.Sex
	}
	if in.ImgPath != "" {
		user.ImgPath = in.ImgPath
	}

	err = s.store.Users().Update(ctx, user)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, ErrEmailTaken
	case errors.Is(err, store.ErrNotFound):
		return nil, notFound("user")
	case err != nil:
		return nil, err
	}
	return user, nil
}
