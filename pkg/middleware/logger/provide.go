package logger

import (
	"github.com/joeydtaylor/steeze-firehose/pkg/settings"
	"go.uber.org/zap"
)

func ProvideLoggerMiddleware(s settings.Settings) *Middleware {
	return NewMiddleware(NewLog(s.AccessLogFile))
}

func ProvideLogger(s settings.Settings) *zap.Logger { return NewLog(s.LogFile) }
