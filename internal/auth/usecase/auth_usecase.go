package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	authdomain "feedhub-backend/internal/auth/domain"
	authdto "feedhub-backend/internal/auth/dto"
	"feedhub-backend/internal/auth/repository"
	"feedhub-backend/pkg/apperror"
	"feedhub-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase defines credential and session operations
type AuthUsecase interface {
	Signup(ctx context.Context, req *authdto.SignupRequest) (string, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.LoginResponse, error)

	// Verify checks signature and expiry only; it never reads the store
	Verify(tokenString string) (*authdomain.Claims, error)

	GetUser(ctx context.Context, userID string) (*authdomain.User, error)
	GetStatus(ctx context.Context, userID string) (string, error)
	SetStatus(ctx context.Context, userID, status string) (string, error)

	RegisterDevice(ctx context.Context, userID string, req *authdto.RegisterDeviceRequest) error
	UnregisterDevice(ctx context.Context, userID, token string) error
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	fcmRepo  repository.FCMTokenRepository
	secret   []byte
	expiry   time.Duration
	now      func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, fcmRepo repository.FCMTokenRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		fcmRepo:  fcmRepo,
		secret:   []byte(cfg.JWT.Secret),
		expiry:   cfg.JWT.AccessExpiry,
		now:      time.Now,
	}
}

func (u *authUsecase) Signup(ctx context.Context, req *authdto.SignupRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := apperror.ValidateStruct(req); err != nil {
		return "", err
	}

	existing, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", apperror.Internal("failed to look up user", err)
	}
	if existing != nil {
		return "", emailTaken()
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return "", apperror.Internal("failed to hash password", err)
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Status:   authdomain.DefaultStatus,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// a concurrent signup won the unique index
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", emailTaken()
		}
		return "", apperror.Internal("failed to create user", err)
	}

	return user.ID, nil
}

func emailTaken() error {
	return apperror.Validation("Validation failed", apperror.FieldError{
		Field:   "email",
		Message: "E-Mail address already exists!",
	})
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := apperror.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperror.Auth("No user found with given email!")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperror.Auth("Credentials entered by you is not valid!")
	}

	token, err := u.generateAccessToken(user)
	if err != nil {
		return nil, apperror.Internal("failed to sign token", err)
	}

	return &authdto.LoginResponse{
		Token:  token,
		UserID: user.ID,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(u.expiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.secret)
}

func (u *authUsecase) Verify(tokenString string) (*authdomain.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return u.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Auth("Token expired.")
		}
		return nil, apperror.Auth("Not authenticated.")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Auth("Not authenticated.")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, apperror.Auth("Not authenticated.")
	}
	email, _ := claims["email"].(string)

	return &authdomain.Claims{
		UserID: userID,
		Email:  email,
	}, nil
}

func (u *authUsecase) GetUser(ctx context.Context, userID string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("No user found!")
	}
	return user, nil
}

func (u *authUsecase) GetStatus(ctx context.Context, userID string) (string, error) {
	user, err := u.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

func (u *authUsecase) SetStatus(ctx context.Context, userID, status string) (string, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return "", apperror.Validation("Validation failed", apperror.FieldError{
			Field:   "status",
			Message: "is required",
		})
	}

	updated, err := u.userRepo.UpdateStatus(ctx, userID, status)
	if err != nil {
		return "", apperror.Internal("failed to update status", err)
	}
	if !updated {
		return "", apperror.NotFound("No user found!")
	}
	return status, nil
}

func (u *authUsecase) RegisterDevice(ctx context.Context, userID string, req *authdto.RegisterDeviceRequest) error {
	if err := apperror.ValidateStruct(req); err != nil {
		return err
	}
	if err := u.fcmRepo.SaveToken(ctx, userID, req.Token, req.DeviceInfo); err != nil {
		return apperror.Internal("failed to save device token", err)
	}
	return nil
}

func (u *authUsecase) UnregisterDevice(ctx context.Context, userID, token string) error {
	if err := u.fcmRepo.DeleteToken(ctx, userID, token); err != nil {
		return apperror.Internal("failed to delete device token", err)
	}
	return nil
}
