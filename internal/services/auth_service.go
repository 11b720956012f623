package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// AuthService issues and verifies HS256 tokens for local users
type AuthService struct {
	clock
	userRepo *repositories.UserRepository
	secret   []byte
	ttl      time.Duration
}

func NewAuthService(userRepo *repositories.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		clock:    clock{Now: time.Now},
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

// Login checks credentials and returns a signed token
func (s *AuthService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return s.issue(user)
}

// RefreshToken issues a fresh token for a principal whose user still exists
func (s *AuthService) RefreshToken(principal models.Principal) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByID(principal.UserID.String())
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Me returns the user behind a principal
func (s *AuthService) Me(principal models.Principal) (*models.User, error) {
	user, err := s.userRepo.GetByID(principal.UserID.String())
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	return user, err
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate verifies a token and returns the principal it carries
func (s *AuthService) Authenticate(token string) (models.Principal, error) {
	if len(s.secret) == 0 {
		return models.Principal{}, errors.New("jwt secret not configured")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	claims := &jwtClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return models.Principal{}, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return models.Principal{}, models.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%w: subject claim required", models.ErrUnauthorized)
	}
	if !claims.Role.Valid() {
		return models.Principal{}, fmt.Errorf("%w: unknown role", models.ErrUnauthorized)
	}
	return models.Principal{UserID: userID, Email: claims.Email, Role: claims.Role}, nil
}

// PermissionsFor returns the capabilities of role on entity. Admins may do
// everything, managers may read, write and staff projects, users may read.
func PermissionsFor(entity string, role models.Role) models.Permissions {
	p := models.Permissions{Entity: entity}
	switch role {
	case models.RoleAdmin:
		p.Read, p.Write, p.Delete, p.ManageUsers, p.ManageAssignments = true, true, true, true, true
	case models.RoleManager:
		p.Read, p.Write, p.ManageAssignments = true, true, true
	case models.RoleUser:
		p.Read = true
	}
	return p
}

// CanAccessUser reports whether principal may read or edit the user with id
func CanAccessUser(principal models.Principal, id string) bool {
	return canAccessUser(principal, id)
}
