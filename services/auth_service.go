package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"
	"rental-admin/utils"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	otpTTL = 5 * time.Minute
)

var (
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrAccountGone  = errors.New("account no longer exists")
)

type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Register(ctx context.Context, email, passwordHash, role string, profile map[string]any) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type UserReader interface {
	GetOne(ctx context.Context, id string) (models.User, error)
}

type SessionStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	SaveOTP(ctx context.Context, email, otp string, ttl time.Duration) error
	OTP(ctx context.Context, email string) (string, error)
	DeleteOTP(ctx context.Context, email string) error
}

type Mailer interface {
	SendOTPEmail(toEmail, otp string) error
}

type AuthOptions struct {
	// Providers maps an OAuth provider name to its authorize URL.
	Providers map[string]string
	AppURL    string
}

// AuthService signs admins in and out. Every failure is reported in the
// result object; nothing is retried.
type AuthService struct {
	accounts AccountStore
	users    UserReader
	tokens   *utils.TokenManager
	sessions SessionStore
	mailer   Mailer
	opts     AuthOptions
	log      logger.ILogger
}

// NewAuthService wires the service. sessions and mailer may be nil, which
// disables logout revocation and password reset.
func NewAuthService(accounts AccountStore, users UserReader, tokens *utils.TokenManager, sessions SessionStore, mailer Mailer, opts AuthOptions, log logger.ILogger) *AuthService {
	return &AuthService{
		accounts: accounts,
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		mailer:   mailer,
		opts:     opts,
		log:      log,
	}
}

func failure(name, message string) models.AuthResult {
	return models.AuthResult{Success: false, Error: &models.AuthError{Name: name, Message: message}}
}

func (s *AuthService) Login(ctx context.Context, email, password string) models.AuthResult {
	if email == "" || password == "" {
		return failure("LoginError", "Invalid login credentials")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return failure("LoginError", "Invalid login credentials")
	}
	if err != nil {
		s.log.Error("login lookup failed", logger.Error(err))
		return failure("LoginError", err.Error())
	}

	ok, err := utils.VerifyPassword(account.PasswordHash, password)
	if err != nil || !ok {
		return failure("LoginError", "Invalid login credentials")
	}

	// the role is read from the profile row, which is where admins edit it
	user, err := s.users.GetOne(ctx, account.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return failure("LoginError", "Invalid login credentials")
	}
	if err != nil {
		s.log.Error("login profile lookup failed", logger.Error(err))
		return failure("LoginError", err.Error())
	}

	token, _, err := s.tokens.GenerateToken(account.ID, account.Email, user.Role)
	if err != nil {
		return failure("LoginError", "Login failed")
	}

	return models.AuthResult{Success: true, RedirectTo: "/", Token: token}
}

// LoginWithProvider hands back the provider's authorize URL. The provider
// calls back to <AppURL>/auth/callback.
func (s *AuthService) LoginWithProvider(provider string) models.AuthResult {
	authorizeURL, ok := s.opts.Providers[strings.ToLower(provider)]
	if !ok {
		return failure("ProviderError", fmt.Sprintf("Unsupported provider: %s", provider))
	}

	u, err := url.Parse(authorizeURL)
	if err != nil {
		return failure("ProviderError", "OAuth login failed")
	}
	q := u.Query()
	q.Set("redirect_to", strings.TrimRight(s.opts.AppURL, "/")+"/auth/callback")
	u.RawQuery = q.Encode()

	return models.AuthResult{Success: true, RedirectTo: u.String()}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) models.AuthResult {
	if _, err := s.register(ctx, req.Email, req.Password, req.Name, RoleUser); err != nil {
		return failure("RegisterError", err.Error())
	}
	return models.AuthResult{Success: true, RedirectTo: "/login?registered=true"}
}

// CreateAdmin registers an account with the admin role.
func (s *AuthService) CreateAdmin(ctx context.Context, req models.CreateAdminRequest) (*models.User, error) {
	return s.register(ctx, req.Email, req.Password, req.Name, RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, email, password, name, role string) (*models.User, error) {
	_, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return nil, errors.New("User already registered")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	profile := map[string]any{}
	if name != "" {
		profile["name"] = name
	}
	if role == RoleUser {
		profile["isRenter"] = true
	}

	user, err := s.accounts.Register(ctx, email, hash, role, profile)
	if err != nil {
		return nil, err
	}

	s.log.Info("account registered", logger.String("user_id", user.ID), logger.String("role", role))
	return user, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) models.AuthResult {
	if s.sessions == nil || s.mailer == nil {
		return failure("ForgotPasswordError", "Password reset is not available")
	}

	_, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.AuthResult{Success: true}
	}
	if err != nil {
		return failure("ForgotPasswordError", err.Error())
	}

	otp, err := utils.GenerateOTP(6)
	if err != nil {
		return failure("ForgotPasswordError", "Failed to send password reset email")
	}
	if err := s.sessions.SaveOTP(ctx, email, otp, otpTTL); err != nil {
		return failure("ForgotPasswordError", err.Error())
	}
	if err := s.mailer.SendOTPEmail(email, otp); err != nil {
		s.log.Error("failed to send reset email", logger.Error(err))
		return failure("ForgotPasswordError", "Failed to send password reset email")
	}

	return models.AuthResult{Success: true}
}

// ResetPassword sets a new password for email after checking the emailed code.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) models.AuthResult {
	if s.sessions == nil {
		return failure("UpdatePasswordError", "Password reset is not available")
	}

	stored, err := s.sessions.OTP(ctx, req.Email)
	if err != nil || subtle.ConstantTimeCompare([]byte(stored), []byte(req.OTP)) != 1 {
		return failure("UpdatePasswordError", "Invalid or expired code")
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return failure("UpdatePasswordError", "Invalid or expired code")
	}

	if res := s.UpdatePassword(ctx, account.ID, req.Password); !res.Success {
		return res
	}

	if err := s.sessions.DeleteOTP(ctx, req.Email); err != nil {
		s.log.Warning("failed to clear reset code", logger.Error(err))
	}
	return models.AuthResult{Success: true, RedirectTo: "/login"}
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, password string) models.AuthResult {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return failure("UpdatePasswordError", "Failed to update password")
	}
	if err := s.accounts.UpdatePassword(ctx, userID, hash); err != nil {
		return failure("UpdatePasswordError", err.Error())
	}
	return models.AuthResult{Success: true, RedirectTo: "/login"}
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) models.AuthResult {
	if s.sessions != nil && claims != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
			return failure("LogoutError", err.Error())
		}
	}
	return models.AuthResult{Success: true, RedirectTo: "/login"}
}

// VerifyToken validates signature and expiry, consults the deny list and
// replaces the signed role with the current users.role, so a role change
// applies to tokens already issued. A deny list outage is logged and the
// token is accepted.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.log.Warning("token deny list unavailable", logger.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.users.GetOne(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAccountGone
	}
	if err != nil {
		return nil, err
	}
	claims.Role = user.Role
	return claims, nil
}

func (s *AuthService) Check(ctx context.Context, token string) models.CheckResult {
	if token == "" {
		return models.CheckResult{Authenticated: false, RedirectTo: "/login"}
	}
	if _, err := s.VerifyToken(ctx, token); err != nil {
		return models.CheckResult{
			Authenticated: false,
			RedirectTo:    "/login",
			Logout:        true,
			Error:         &models.AuthError{Name: "Unauthorized", Message: err.Error()},
		}
	}
	return models.CheckResult{Authenticated: true}
}

// GetPermissions returns the caller's role, or nil when the user row is gone.
func (s *AuthService) GetPermissions(ctx context.Context, userID string) (*string, error) {
	user, err := s.users.GetOne(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user.Role, nil
}

func (s *AuthService) GetIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	user, err := s.users.GetOne(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	name := user.Name
	if name == "" {
		name = user.Email
	}
	return &models.Identity{
		ID:     user.ID,
		Email:  user.Email,
		Name:   name,
		Avatar: user.AvatarURL,
		Role:   user.Role,
	}, nil
}

// CurrentUser returns the users row of the caller.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetOne(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
