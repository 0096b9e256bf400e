// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"visatrack-service/internal/domain/user"
	xerrors "visatrack-service/internal/pkg/errors"
	"visatrack-service/internal/pkg/jwt"
	"visatrack-service/internal/pkg/session"
	"visatrack-service/internal/repository/postgres"
)

type AuthService struct {
	userRepo       *postgres.UserRepository
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	rateLimiter    *session.RateLimiter
	logger         *zap.Logger
}

func NewAuthService(
	userRepo *postgres.UserRepository,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	rateLimiter *session.RateLimiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		logger:         logger,
	}
}

// Login authenticates a user and opens a redis-backed session. Attempts are
// rate limited per (ip, email) pair.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest, ip string) (*user.LoginResponse, error) {
	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		s.logger.Warn("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("email", req.Email),
			zap.String("ip", ip),
			zap.Int64("attempts_remaining", remaining))
		return nil, xerrors.ErrRateLimited
	}

	u, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected", zap.String("email", req.Email), zap.String("ip", ip))
		return nil, xerrors.ErrUnauthorized
	}

	token, jti, err := s.jwtManager.Generate(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.sessionManager.Create(ctx, &session.Session{
		JTI:       jti,
		UserID:    u.ID,
		Role:      u.Role,
		IP:        ip,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, ip, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	s.logger.Info("user logged in", zap.Int64("user_id", u.ID), zap.String("role", u.Role))
	return &user.LoginResponse{Token: token, User: u}, nil
}

// Logout revokes the session behind one token.
func (s *AuthService) Logout(ctx context.Context, userID int64, jti string) error {
	return s.sessionManager.Delete(ctx, userID, jti)
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every other session for the account.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *user.ChangePasswordRequest) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return xerrors.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	if err := s.sessionManager.DeleteAll(ctx, userID); err != nil {
		s.logger.Warn("failed to revoke sessions after password change",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	s.logger.Info("password changed", zap.Int64("user_id", userID))
	return nil
}

// Me returns the account behind a verified token.
func (s *AuthService) Me(ctx context.Context, userID int64) (*user.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// EnsureAdminExists creates the bootstrap admin account when no account with
// the given email exists yet. Called once at startup.
func (s *AuthService) EnsureAdminExists(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to check admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	u := &user.User{
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}
