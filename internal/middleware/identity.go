package middleware

import (
	"adaptive_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// Identity 从 X-User-ID 头解析调用方身份
// 认证鉴权由上游网关完成，这里只信任网关注入的用户标识
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := util.MustParseUint(c.GetHeader("X-User-ID"))
		if userID == 0 {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}
