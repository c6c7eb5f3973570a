package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// UserRepositoryInterface defines the interface for user data access.
type UserRepositoryInterface interface {
	Insert(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

// UserService provides business logic for accounts and sessions.
type UserService struct {
	userRepo    UserRepositoryInterface
	tokenSecret string
	tokenTTL    time.Duration
}

// NewUserService creates a new UserService. Issued tokens are signed with
// tokenSecret and expire after tokenTTL.
func NewUserService(userRepo UserRepositoryInterface, tokenSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo:    userRepo,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
	}
}

func (s *UserService) issue(user *model.User) (string, error) {
	return auth.IssueToken(s.tokenSecret, auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Points: user.Points,
	}, s.tokenTTL)
}

// Register creates a new account and signs it in.
// Returns ErrEmailExists if the email is already registered.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Login authenticates an account by email and password.
// Returns ErrInvalidCredentials for unknown emails, wrong passwords and
// deactivated accounts alike; the caller learns nothing about which.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !user.IsActive || !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Profile retrieves the caller's account with its live points balance.
func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update to the caller's account. Nil
// fields keep their value. Email, role and points are not writable here.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List retrieves every account for the admin console.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// SetActive flips an account's active flag. Deactivated accounts cannot
// log in; existing tokens lapse at their expiry.
func (s *UserService) SetActive(ctx context.Context, userID int64, active bool) error {
	return s.userRepo.SetActive(ctx, userID, active)
}

// Count returns the number of registered accounts.
func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.userRepo.Count(ctx)
}
