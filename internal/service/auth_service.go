package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"faculty-appraisal/config"
	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/repository"
	"faculty-appraisal/pkg/jwt"
	"faculty-appraisal/pkg/redis"
)

// 认证模块业务错误
var (
	ErrInvalidCredentials = errors.New("工号或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrOldPasswordWrong   = errors.New("原密码错误")
	ErrTokenTypeMismatch  = errors.New("token 类型不匹配")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessJTI string, accessExpiry time.Time) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	GetMe(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	repo       *repository.Repository
	jwtManager *jwt.Manager
	rdb        *redis.Client
	authCfg    *config.AuthConfig
	logger     *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, jwtManager *jwt.Manager, rdb *redis.Client, authCfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		repo:       repo,
		jwtManager: jwtManager,
		rdb:        rdb,
		authCfg:    authCfg,
		logger:     logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 工号不存在与密码错误返回同一错误，不泄露账号存在性
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("登录密码错误", zap.String("employee_id", req.EmployeeID))
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user.UserID, string(user.Role), derefOr(user.DepartmentID), user.CollegeScope(), req.RememberMe)
	if err != nil {
		return nil, err
	}
	tokens.User = *toUserResponse(user)

	s.logger.Info("用户登录成功",
		zap.String("user_id", user.UserID),
		zap.String("employee_id", user.EmployeeID),
		zap.String("role", string(user.Role)))
	return tokens, nil
}

// ────────────────────── Logout ──────────────────────

// Logout 将当前 Access Token 加入黑名单，剩余有效期内拒绝复用
func (s *authService) Logout(ctx context.Context, accessJTI string, accessExpiry time.Time) error {
	ttl := time.Until(accessExpiry)
	if err := s.rdb.BlacklistToken(ctx, accessJTI, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtManager.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrTokenTypeMismatch
	}

	blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, jwt.ErrTokenInvalid
	}

	// 重新加载用户，角色或组织归属变更立即生效
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 旧 Refresh Token 立即作废（防重放）
	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
			s.logger.Error("旧 Refresh Token 作废失败", zap.Error(err))
			return nil, err
		}
	}

	tokens, err := s.issueTokens(user.UserID, string(user.Role), derefOr(user.DepartmentID), user.CollegeScope(), claims.RememberMe)
	if err != nil {
		return nil, err
	}
	tokens.User = *toUserResponse(user)
	return tokens, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	user.UpdatedBy = &userID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("修改密码失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("密码修改成功", zap.String("user_id", userID))
	return nil
}

// ────────────────────── GetMe ──────────────────────

func (s *authService) GetMe(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *authService) issueTokens(userID, role, departmentID, collegeID string, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(userID, role, departmentID, collegeID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(userID, role, departmentID, collegeID, rememberMe)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.authCfg.AccessTokenTTL.Seconds()),
	}, nil
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
