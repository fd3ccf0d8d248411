package api

import (
	"context"
	"strings"
)

// DefaultPlan is the tier used when registration does not specify one.
const DefaultPlan = "SILVER"

// AuthService covers /auth/* and the profile endpoint.
type AuthService struct {
	c *Client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Plan     string `json:"plan"`
}

// AuthResponse is the raw result of login/registration. The backend emits
// the bearer credential under one of two field names, and registration may
// legitimately omit it entirely (account created, not auto-authenticated),
// so token absence is NOT an error at this layer; the session manager
// decides what it means.
type AuthResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user,omitempty"`
}

// BearerToken returns the credential from whichever accepted field carries
// it, or "" when the response has none.
func (r AuthResponse) BearerToken() string {
	if t := strings.TrimSpace(r.Token); t != "" {
		return t
	}
	return strings.TrimSpace(r.AccessToken)
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := s.c.doJSON(ctx, "POST", "/auth/login", loginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Register creates an account. Plan defaults to DefaultPlan when empty.
func (s *AuthService) Register(ctx context.Context, username, email, password, plan string) (AuthResponse, error) {
	if strings.TrimSpace(plan) == "" {
		plan = DefaultPlan
	}
	var out AuthResponse
	err := s.c.doJSON(ctx, "POST", "/auth/signup", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
		Plan:     plan,
	}, &out)
	return out, err
}

// Profile fetches the authenticated user. The backend returns either
// {"user": {...}} or the bare user object.
func (s *AuthService) Profile(ctx context.Context) (User, error) {
	raw, err := s.c.do(ctx, "GET", "/users/me", nil)
	if err != nil {
		return User{}, err
	}
	return decodeWrapped[User](raw, "user")
}
