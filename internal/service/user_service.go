package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	"inventaris/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DTOs for request validation
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	NIP      string `json:"nip"`
	NIK      string `json:"nik"`
	Alamat   string `json:"alamat"`
	NoHP     string `json:"no_hp"`
	Divisi   string `json:"divisi"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email" binding:"omitempty,email"`
	NIP    string `json:"nip"`
	NIK    string `json:"nik"`
	Alamat string `json:"alamat"`
	NoHP   string `json:"no_hp"`
	Divisi string `json:"divisi"`
	Role   string `json:"role"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse returns User data without exposing sensitive fields
type UserResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	NIP    string `json:"nip,omitempty"`
	NIK    string `json:"nik,omitempty"`
	Alamat string `json:"alamat,omitempty"`
	NoHP   string `json:"no_hp,omitempty"`
	Divisi string `json:"divisi,omitempty"`
	Role   string `json:"role"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, caller model.AuthUser, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	ListUsers(ctx context.Context, caller model.AuthUser, offset, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, caller model.AuthUser, id uint, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, caller model.AuthUser, id uint) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		NIP:    user.NIP,
		NIK:    user.NIK,
		Alamat: user.Alamat,
		NoHP:   user.NoHP,
		Divisi: user.Divisi,
		Role:   user.Role,
	}
}

func (s *userService) CreateUser(ctx context.Context, caller model.AuthUser, req CreateUserRequest) (*UserResponse, error) {
	if !caller.CanManageInventory() {
		return nil, apperror.Forbiddenf("only admins and superadmins can create users")
	}
	if !model.ValidRole(req.Role) {
		return nil, apperror.Validationf("invalid role: must be superadmin, admin, or user")
	}
	// Only superadmins can mint other privileged accounts.
	if req.Role != model.RoleUser && caller.Role != model.RoleSuperadmin {
		return nil, apperror.Forbiddenf("only superadmins can create privileged accounts")
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Validationf("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		NIP:      req.NIP,
		NIK:      req.NIK,
		Alamat:   req.Alamat,
		NoHP:     req.NoHP,
		Divisi:   req.Divisi,
		Role:     req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Forbiddenf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Forbiddenf("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperror.Forbiddenf("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, refreshToken)
		return nil, apperror.Forbiddenf("refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperror.Forbiddenf("invalid refresh token")
	}

	// Rotate: the old token dies with the new issue.
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"exp":  now.Add(accessTokenTTL).Unix(),
		"iat":  now.Unix(),
	})

	// Same fallback strategy as the auth middleware.
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := s.repo.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refresh.Token}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("user %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, caller model.AuthUser, offset, limit int) ([]UserResponse, int64, error) {
	if !caller.CanManageInventory() {
		return nil, 0, apperror.Forbiddenf("only admins and superadmins can list users")
	}

	users, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, caller model.AuthUser, id uint, req UpdateUserRequest) (*UserResponse, error) {
	if !caller.CanManageInventory() && caller.ID != id {
		return nil, apperror.Forbiddenf("cannot update another user's profile")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("user %d", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Role != "" && req.Role != user.Role {
		// Role changes are superadmin territory.
		if caller.Role != model.RoleSuperadmin {
			return nil, apperror.Forbiddenf("only superadmins can change roles")
		}
		if !model.ValidRole(req.Role) {
			return nil, apperror.Validationf("invalid role: must be superadmin, admin, or user")
		}
		user.Role = req.Role
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperror.Validationf("email already exists")
		}
		user.Email = req.Email
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.NIP != "" {
		user.NIP = req.NIP
	}
	if req.NIK != "" {
		user.NIK = req.NIK
	}
	if req.Alamat != "" {
		user.Alamat = req.Alamat
	}
	if req.NoHP != "" {
		user.NoHP = req.NoHP
	}
	if req.Divisi != "" {
		user.Divisi = req.Divisi
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, caller model.AuthUser, id uint) error {
	if caller.Role != model.RoleSuperadmin {
		return apperror.Forbiddenf("only superadmins can delete users")
	}
	if caller.ID == id {
		return apperror.Validationf("cannot delete your own account")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("user %d", id)
		}
		return fmt.Errorf("database error: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
