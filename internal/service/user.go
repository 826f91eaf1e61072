package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openvault/filevault/internal/auth"
	"github.com/openvault/filevault/internal/model"
	"github.com/openvault/filevault/internal/repository"
	"github.com/openvault/filevault/internal/validation"
)

var (
	ErrMissingEmail       = errors.New("missing email")
	ErrMissingPassword    = errors.New("missing password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type UserService struct {
	userRepository repository.UserRepository
	fileRepository repository.FileRepository
}

func NewUserService(userRepository repository.UserRepository, fileRepository repository.FileRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
		fileRepository: fileRepository,
	}
}

// Register creates a user with a salted argon2id digest. A duplicate email
// fails with ErrEmailAlreadyExists and leaves the existing record untouched;
// the uniqueness index is the only guard needed under concurrent requests.
func (s *UserService) Register(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and returns the matching user. Unknown email
// and bad password fail identically.
func (s *UserService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// Stats returns the total user and file counts for the /stats endpoint.
func (s *UserService) Stats() (users, files int64, err error) {
	users, err = s.userRepository.Count()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	files, err = s.fileRepository.Count()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count files: %w", err)
	}
	return users, files, nil
}
