package middleware

import (
	"net/http"
	"strings"

	auth "bookdirectstays/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Verifier 由 *adminauth.Gate 实现
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// BearerToken 从 Authorization 头中提取 Bearer 令牌
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AdminAuth 管理员会话中间件
func AdminAuth(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "缺少认证令牌"})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "无效的认证令牌"})
			return
		}

		// 将会话信息存入上下文
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}
