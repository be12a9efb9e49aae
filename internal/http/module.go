// Package http holds the contract between the router and the bounded
// context modules that mount routes on it.
package http

import (
	"leadrouter/platform/config"
	"leadrouter/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is implemented by every HTTP-facing module (leads, directory,
// webhook, jobs).
type Module interface {
	// Name is used in startup logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
// This avoids passing many parameters to each module's RegisterRoutes method.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the /api/v1 route group.
	V1 *gin.RouterGroup
	// Secrets holds the shared secrets for webhook and job routes.
	Secrets config.SecretsConfig
	// WebhookRateLimiter throttles webhook intake per client IP.
	WebhookRateLimiter *httpkit.IPRateLimiter
}
