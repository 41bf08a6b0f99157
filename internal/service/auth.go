package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
	"github.com/onyxhabits/onyx/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepository           repository.UserRepository
	tokenRepository          repository.TokenRepository
	emailService             *EmailService
	jwtSecret                string
	jwtExpiry                time.Duration
	tokenPasswordResetExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	jwtSecret string,
	jwtExpiry time.Duration,
	tokenPasswordResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		tokenRepository:          tokenRepository,
		emailService:             emailService,
		jwtSecret:                jwtSecret,
		jwtExpiry:                jwtExpiry,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
	}
}

// Register creates an account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, "", invalid(err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", invalid(err)
	}
	if err := validation.ValidatePassword(password, username, email); err != nil {
		return nil, "", invalid(err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(ctx, user)
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return nil, "", ErrUsernameTaken
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, "", ErrEmailTaken
	case err != nil:
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(ctx, user.Email, user.Username)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login accepts a username, or an email address as the identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*model.User, string, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	if identifier == "" || password == "" {
		return nil, "", newError(ErrInvalidInput, "Username and password required")
	}

	var user *model.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepository.ByEmail(ctx, identifier)
	} else {
		user, err = s.userRepository.ByUsername(ctx, identifier)
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ForgotPassword e-mails a single-use reset link. Unknown addresses succeed silently
// to prevent account enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validation.ValidateEmail(email); err != nil {
		return invalid(err)
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		slog.Info("password reset requested for non-existent email", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.tokenRepository.DeleteByUserAndType(ctx, user.ID, model.TokenTypePasswordReset)
	if err != nil {
		slog.Warn("failed to delete old tokens", "error", err, "user_id", user.ID)
	}

	resetToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(s.tokenPasswordResetExpiry),
	})
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	err = s.emailService.SendPasswordResetEmail(ctx, user.Email, user.Username, resetToken)
	if err != nil {
		slog.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("password reset link sent", "user_id", user.ID)
	return nil
}

// ResetPassword consumes the reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if err := validation.ValidatePassword(password); err != nil {
		return invalid(err)
	}

	// ConsumeToken atomically marks token as used (prevents race conditions)
	tokenModel, err := s.tokenRepository.ConsumeToken(ctx, token)
	if errors.Is(err, repository.ErrTokenNotFound) || errors.Is(err, repository.ErrTokenExpired) {
		return ErrResetLinkInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to consume token: %w", err)
	}

	if tokenModel.Type != model.TokenTypePasswordReset {
		return ErrResetLinkInvalid
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(ctx, tokenModel.UserID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset", "user_id", tokenModel.UserID)
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
