package config

import (
	"os"

	"portfolio/internal/logger"
)

// InitLogger 는 LOG_LEVEL 환경변수가 있으면 그것을, 없으면 config.yaml 의 logging.level 을 사용해
// 전역 로거를 초기화한다.
func InitLogger(cfg LoggingConfig) {
	level := cfg.Level
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = v
	}
	logger.Init(level)
}
