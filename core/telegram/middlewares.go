package telegram

import (
	"github.com/m3rciful/barbot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain applied to every update.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}
