package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// detailInternal はパニック時にdetailとして返す文言。
const detailInternal = "Erro interno do servidor."

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニック発生時はloggerに記録し、500エラーを返す。
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("ハンドラでパニックが発生",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
					zap.Any("panic", r),
					zap.Stack("stack"))
				abortWithDetail(c, http.StatusInternalServerError, detailInternal)
			}
		}()
		c.Next()
	}
}
