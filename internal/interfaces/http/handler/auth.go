// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"gamertales-api/internal/config"
	"gamertales-api/internal/domain/entity"
	"gamertales-api/internal/domain/repository"
	"gamertales-api/internal/gamification"
	"gamertales-api/internal/interfaces/http/dto"
	"gamertales-api/internal/suggestion"
	"gamertales-api/pkg/logger"
	"gamertales-api/pkg/utils"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	jwtManager  *utils.JWTManager
	cfg         config.JWTConfig
	tx          repository.Transactor
	userRepo    repository.UserRepository
	chapterRepo repository.ChapterRepository
	sessions    *suggestion.Manager
	scheduler   *gamification.Scheduler
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	cfg config.JWTConfig,
	tx repository.Transactor,
	userRepo repository.UserRepository,
	chapterRepo repository.ChapterRepository,
	sessions *suggestion.Manager,
	scheduler *gamification.Scheduler,
) *AuthHandler {
	return &AuthHandler{
		jwtManager:  utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		cfg:         cfg,
		tx:          tx,
		userRepo:    userRepo,
		chapterRepo: chapterRepo,
		sessions:    sessions,
		scheduler:   scheduler,
	}
}

// Register 注册
//
// 新用户自动获得第一章，开箱即写。
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// 检查邮箱是否已存在
	existing, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to check email existence", err)
		dto.InternalError(c, "registration failed")
		return
	}
	if existing != nil {
		dto.Conflict(c, "email already registered")
		return
	}

	// 创建用户实体
	user := entity.NewUser(req.Email, req.Name)
	if err := user.SetPassword(req.Password); err != nil {
		logger.Error(ctx, "failed to hash password", err)
		dto.InternalError(c, "registration failed")
		return
	}

	// 用户和第一章在同一事务中创建
	err = h.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := h.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return h.chapterRepo.Create(ctx, entity.NewFirstChapter(user.ID))
	})
	if err != nil {
		logger.Error(ctx, "failed to create user", err)
		dto.InternalError(c, "registration failed")
		return
	}

	// 生成 Token
	tokens, err := h.jwtManager.GenerateTokenPair(user.ID, string(user.Role), h.cfg.Expiration, h.cfg.RefreshExpiration)
	if err != nil {
		dto.InternalError(c, "user created but failed to generate tokens")
		return
	}

	// 设置 RefreshToken 到 Cookie
	c.SetCookie("refresh_token", tokens.RefreshToken, int(h.cfg.RefreshExpiration.Seconds()), "/v1/auth/refresh", "", false, true)

	dto.Created(c, &dto.AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int(h.cfg.Expiration.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// 查询用户
	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "login failed")
		return
	}

	// 校验存在性及密码
	if user == nil || !user.CheckPassword(req.Password) {
		dto.Unauthorized(c, "invalid email or password")
		return
	}

	// 更新登录状态
	now := time.Now()
	user.LastLoginAt = &now
	if err := h.userRepo.Update(ctx, user); err != nil {
		logger.Warn(ctx, "failed to update last login time", "error", err, "user_id", user.ID)
	}

	// 生成 Token
	tokens, err := h.jwtManager.GenerateTokenPair(user.ID, string(user.Role), h.cfg.Expiration, h.cfg.RefreshExpiration)
	if err != nil {
		dto.InternalError(c, "failed to generate tokens")
		return
	}

	c.SetCookie("refresh_token", tokens.RefreshToken, int(h.cfg.RefreshExpiration.Seconds()), "/v1/auth/refresh", "", false, true)

	dto.Success(c, &dto.AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int(h.cfg.Expiration.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// RefreshToken 刷新 Token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		dto.Unauthorized(c, "missing refresh token")
		return
	}

	claims, err := h.jwtManager.ParseToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		dto.Unauthorized(c, "invalid refresh token")
		return
	}

	newAccessToken, err := h.jwtManager.GenerateToken(claims.UserID, claims.Role, "access", h.cfg.Expiration)
	if err != nil {
		dto.InternalError(c, "failed to generate access token")
		return
	}

	dto.Success(c, gin.H{
		"access_token": newAccessToken,
		"expires_in":   int(h.cfg.Expiration.Seconds()),
	})
}

// Logout 登出
//
// 关闭建议会话并把未落库的游戏化进度立即写入。
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if userID := currentUserID(c); userID != "" {
		h.sessions.Close(userID)
		h.scheduler.Flush(ctx, userID)
	}

	c.SetCookie("refresh_token", "", -1, "/v1/auth/refresh", "", false, true)
	dto.Success(c, gin.H{"message": "logged out success"})
}
