package service

import (
	"classroom_backend/internal/config"
	"classroom_backend/internal/model"
	"classroom_backend/internal/util"
	"context"
	"errors"
)

type AuthService struct {
	Users *UserService
	Cfg   *config.Config
}

func NewAuthService(users *UserService, cfg *config.Config) *AuthService {
	return &AuthService{
		Users: users,
		Cfg:   cfg,
	}
}

// Register creates a student or teacher account. Admins are only created by the admin CLI.
func (s *AuthService) Register(ctx context.Context, in NewUserInput) (uint, error) {
	if in.Role == model.Admin {
		return 0, util.ErrInvalidRole
	}
	return s.Users.CreateUser(ctx, in)
}

// Login checks the password and issues a token. Unknown email and wrong password fail the
// same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.Users.GetUserByEmail(ctx, email)
	if errors.Is(err, util.ErrNotFound) {
		return "", nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := user.CheckPassword(password); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, util.ErrUserInactive
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
