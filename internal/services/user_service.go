package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/pkg/cache"
	"github.com/alimgiray/staffhub/pkg/logger"
	"github.com/alimgiray/staffhub/pkg/sanitize"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var bcryptCost = 12

type UserService struct {
	clock
	userRepo *repositories.UserRepository
	cache    *cache.Cache[string, models.User]
}

func NewUserService(userRepo *repositories.UserRepository, userCache *cache.Cache[string, models.User]) *UserService {
	return &UserService{
		clock:    clock{Now: time.Now},
		userRepo: userRepo,
		cache:    userCache,
	}
}

// HashPassword hashes a plain password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GetUserByID retrieves a user through the cache
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	if err := validateID("User", id); err != nil {
		return nil, err
	}
	user, err := s.cache.GetOrLoad(id, func() (models.User, error) {
		loaded, err := s.userRepo.GetByID(id)
		if err != nil {
			return models.User{}, err
		}
		return *loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	return s.userRepo.GetByEmail(strings.TrimSpace(email))
}

// GetAllUsers retrieves every user
func (s *UserService) GetAllUsers() ([]*models.User, error) {
	return s.userRepo.GetAll()
}

// GetUserForPrincipal allows admins to read anyone and others only themselves
func (s *UserService) GetUserForPrincipal(principal models.Principal, id string) (*models.User, error) {
	if !canAccessUser(principal, id) {
		return nil, models.ErrForbidden
	}
	return s.GetUserByID(id)
}

func canAccessUser(principal models.Principal, id string) bool {
	return principal.IsAdmin() || principal.UserID.String() == id
}

// CreateUser creates a user with a bcrypt hashed password
func (s *UserService) CreateUser(req *models.UserRequest) (*models.User, error) {
	if req.Password == "" {
		return nil, models.ErrUserPasswordRequired
	}

	now := s.now()
	user := &models.User{
		ID:        uuid.New(),
		FirstName: sanitize.Text(req.FirstName),
		LastName:  sanitize.Text(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  sanitize.Text(req.Position),
		Role:      req.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.userRepo.Create(user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewStateError("a user with email %s already exists", user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser updates a profile; only admins may update other users or change roles
func (s *UserService) UpdateUser(principal models.Principal, id string, req *models.UserRequest) (*models.User, error) {
	if err := validateID("User", id); err != nil {
		return nil, err
	}
	if !canAccessUser(principal, id) {
		return nil, models.ErrForbidden
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = sanitize.Text(req.FirstName)
	}
	if req.LastName != "" {
		user.LastName = sanitize.Text(req.LastName)
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = email
	}
	user.Phone = strings.TrimSpace(req.Phone)
	user.Position = sanitize.Text(req.Position)
	if req.Role != "" && req.Role != user.Role {
		if !principal.IsAdmin() {
			return nil, models.ErrForbidden
		}
		if err := s.ensureAdminRemains(user, req.Role); err != nil {
			return nil, err
		}
		user.Role = req.Role
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if req.Password != "" {
		if user.PasswordHash, err = HashPassword(req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewStateError("a user with email %s already exists", user.Email)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.cache.Invalidate(id)
	return user, nil
}

// UpdateUserRole changes a user's role without demoting the last admin
func (s *UserService) UpdateUserRole(id string, role models.Role) (*models.User, error) {
	if err := validateID("User", id); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, models.ErrUserRoleInvalid
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAdminRemains(user, role); err != nil {
		return nil, err
	}

	user.Role = role
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	s.cache.Invalidate(id)
	return user, nil
}

// DeleteUser deletes a user; admins cannot delete themselves or the last admin
func (s *UserService) DeleteUser(principal models.Principal, id string) error {
	if err := validateID("User", id); err != nil {
		return err
	}
	if principal.UserID.String() == id {
		return models.NewStateError("you cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.ensureAdminRemains(user, ""); err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

// ensureAdminRemains blocks removing the admin role from the last admin
func (s *UserService) ensureAdminRemains(user *models.User, newRole models.Role) error {
	if user.Role != models.RoleAdmin || newRole == models.RoleAdmin {
		return nil
	}
	admins, err := s.userRepo.CountByRole(models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return models.NewStateError("the last administrator cannot be removed or demoted")
	}
	return nil
}

// EnsureAdmin seeds the default administrator when no user holds its email
func (s *UserService) EnsureAdmin(email, password string) error {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	_, err := s.CreateUser(&models.UserRequest{
		FirstName: "Admin",
		LastName:  "User",
		Email:     email,
		Password:  password,
		Role:      models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	logger.Component("users").WithField("email", email).Info("Seeded default admin user")
	return nil
}
