package service

import (
	"errors"
	"strings"
	"time"

	"skilldev_backend/internal/config"
	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/util"
	"skilldev_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	JWT      *config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{UserRepo: userRepo, JWT: jwtCfg}
}

// RegisterRequest 注册请求，员工档案在首次访问时自动创建
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"max=150"`
	LastName  string `json:"lastName" binding:"max=150"`
}

// Register 公开注册只能创建 worker 角色
func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	return s.CreateUser(req, model.WorkerRole)
}

// CreateUser 命令行创建讲师或管理员时也走这里
func (s *AuthService) CreateUser(req RegisterRequest, role model.UserRole) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.UserRepo.FindByUsername(req.Username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		BaseModel: model.BaseModel{IsActive: true},
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// LoginRequest login 可以是用户名或邮箱
// swagger:model LoginRequest
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Login(req LoginRequest) (*LoginResult, error) {
	user, err := s.UserRepo.FindByLogin(strings.TrimSpace(req.Login))
	if err != nil || !user.IsActive {
		return nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Log.Warn("更新最后登录时间失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = &now

	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
