package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/internal/metrics"
)

// Metrics 는 요청 수와 지연 시간을 라우트 패턴 기준으로 기록한다.
// 경로 값(id 등)이 라벨로 들어가지 않도록 c.FullPath() 를 쓴다.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
