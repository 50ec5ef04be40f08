package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/service"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type signupRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=4,max=8"`
	Sex      string `json:"sex" form:"sex" validate:"omitempty,oneof=male female other"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type profileRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email" validate:"omitempty,email"`
	Sex     string `form:"sex" json:"sex" validate:"omitempty,oneof=male female other"`
	ImgPath string `form:"imgPath" json:"imgPath"`
}

func (h *Handler) SignupPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "signup", "Sign up", nil)
}

func (h *Handler) LoginPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "login", "Log in", nil)
}

// Signup registers a new account
func (h *Handler) Signup(c echo.Context) error {
	log := logger.FromContext(c)

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	user, err := h.svc.Users.Signup(c.Request().Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Sex:      req.Sex,
	})
	if err != nil {
		return apiError(c, err, "Failed to create user")
	}

	log.Info("User signed up", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, user)
}

// Login signs a session token, sets it as the session cookie and returns it
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	session, err := h.svc.Users.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		log.Warn("Login failed", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return apiError(c, err, "Failed to log in")
	}

	c.SetCookie(&http.Cookie{
		Name:     h.opts.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  time.Now().Add(session.TTL),
		MaxAge:   int(session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("User logged in", zap.Uint("user_id", session.User.ID), zap.Bool("admin", session.IsAdmin))
	return c.JSON(http.StatusOK, echo.Map{
		"token":      session.Token,
		"expires_in": int(session.TTL.Seconds()),
		"user":       session.User,
	})
}

// Logout clears the session cookie
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: h.opts.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	return c.Redirect(http.StatusSeeOther, "/catalog")
}

// ProfilePage renders the signed-in user's profile
func (h *Handler) ProfilePage(c echo.Context) error {
	user, err := h.svc.Users.Profile(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.pageError(c, err, "Failed to load profile")
	}
	return h.render(c, http.StatusOK, "profile", "Profile", user)
}

// UpdateProfile saves the profile form and redirects back to the profile
func (h *Handler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)
	userID := currentUserID(c)

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return h.profileError(c, http.StatusBadRequest, "invalid form data")
	}
	if err := c.Validate(&req); err != nil {
		return h.profileError(c, http.StatusBadRequest, err.Error())
	}

	_, err := h.svc.Users.UpdateProfile(c.Request().Context(), userID, service.ProfileInput{
		Name:    req.Name,
		Email:   req.Email,
		Sex:     req.Sex,
		ImgPath: req.ImgPath,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			return h.pageError(c, err, "Failed to update profile")
		}
		log.Warn("Profile update rejected", zap.Error(err))
		return h.profileError(c, status, err.Error())
	}

	log.Info("Profile updated", zap.Uint("user_id", userID))
	return c.Redirect(http.StatusSeeOther, "/profile")
}

// profileError re-renders the profile form with a message
func (h *Handler) profileError(c echo.Context, status int, message string) error {
	user, err := h.svc.Users.Profile(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.pageError(c, err, "Failed to load profile")
	}
	return h.renderMessage(c, status, "profile", "Profile", message, user)
}
