package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Session is an authenticated user together with its signed token. The API
// layer stores the token in the session cookie.
type Session struct {
	User      models.PublicUser
	Token     string
	ExpiresAt time.Time
}

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

var errInvalidCredentials = apperrors.Unauthorized("invalid email or password")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, apperrors.Validation("name must be at least 2 characters", map[string]string{"name": "min 2 characters"})
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters", map[string]string{"password": "min 8 characters"})
	}

	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}
	if existingUser != nil {
		return nil, apperrors.Conflict("email already in use")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
	}

	// A concurrent signup that wins the race surfaces as a unique violation.
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.newSession(user)
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.newSession(user)
}

// CurrentUser verifies a session token and returns the identity it carries.
func (s *DefaultService) CurrentUser(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("session expired")
		}
		return nil, apperrors.Unauthorized("invalid session")
	}
	if claims.UserID == "" {
		return nil, apperrors.Unauthorized("invalid session")
	}

	return &models.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *DefaultService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	// The token outlived its user.
	if user == nil {
		return nil, apperrors.Unauthorized("user no longer exists")
	}

	profile := user.Profile()
	return &profile, nil
}

func (s *DefaultService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 {
			return nil, apperrors.Validation("name must be at least 2 characters", map[string]string{"name": "min 2 characters"})
		}
		req.Name = &name
	}

	if _, err := s.Me(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, userID, req); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return s.Me(ctx, userID)
}

// Helper methods
func (s *DefaultService) newSession(user *models.User) (*Session, error) {
	token, expiresAt, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &Session{User: user.Public(), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *DefaultService) generateJWT(user *models.User) (string, time.Time, error) {
	issuedAt := time.Now()
	expirationTime := issuedAt.Add(s.tokenDuration)

	claims := sessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	return signed, expirationTime, err
}
