package handler

import (
	"context"
	"errors"
	"net/http"

	"bookdirectstays/internal/adminauth"
	"bookdirectstays/internal/middleware"
	auth "bookdirectstays/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	stateCookie     = "oauth_state"
	stateCookieAge  = 600
	stateCookiePath = "/auth/google"
)

// LoginGate 由 *adminauth.Gate 实现
type LoginGate interface {
	BeginLogin(state string) string
	CompleteLogin(ctx context.Context, code string) (*adminauth.Session, error)
	Verify(token string) (*auth.Claims, error)
}

// AuthHandler 管理员 Google 登录
type AuthHandler struct {
	gate LoginGate
}

func NewAuthHandler(gate LoginGate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// VerifyResponse 令牌校验结果
type VerifyResponse struct {
	Valid bool        `json:"valid" example:"true"`
	User  SessionUser `json:"user"`
}

// SessionUser 会话中的用户信息
type SessionUser struct {
	Email     string `json:"email" example:"owner@bookdirectstays.com"`
	Role      string `json:"role" example:"admin"`
	ExpiresAt int64  `json:"exp" example:"1767225600"`
}

// GoogleLogin godoc
// @Summary 跳转 Google 登录
// @Tags Auth
// @Success 302 "跳转到 Google 授权页"
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieAge, stateCookiePath, "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, h.gate.BeginLogin(state))
}

// GoogleCallback godoc
// @Summary Google 登录回调
// @Description 授权码换取会话，成功后跳转 /admin?token=
// @Tags Auth
// @Param   code   query  string  true  "授权码"
// @Param   state  query  string  false "防 CSRF 的 state"
// @Success 302 "跳转到管理后台"
// @Failure 400 {object} map[string]interface{} "缺少授权码"
// @Failure 401 {object} map[string]interface{} "认证失败"
// @Failure 403 {object} map[string]interface{} "无权限"
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少授权码"})
		return
	}

	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "登录状态无效，请重新登录"})
		return
	}
	c.SetCookie(stateCookie, "", -1, stateCookiePath, "", c.Request.TLS != nil, true)

	sess, err := h.gate.CompleteLogin(c.Request.Context(), code)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, sess.RedirectURL)
	case errors.Is(err, adminauth.ErrMissingCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少授权码"})
	case errors.Is(err, adminauth.ErrExchangeFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "认证失败"})
	case errors.Is(err, adminauth.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "无权访问"})
	default:
		zap.S().Errorf("管理员登录失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
	}
}

// Verify godoc
// @Summary 校验管理员会话
// @Tags Auth
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} VerifyResponse "令牌有效"
// @Failure 401 {object} map[string]interface{} "令牌无效或已过期"
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "缺少认证令牌"})
		return
	}

	claims, err := h.gate.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "令牌无效或已过期"})
		return
	}

	user := SessionUser{Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Unix()
	}
	c.JSON(http.StatusOK, VerifyResponse{Valid: true, User: user})
}
