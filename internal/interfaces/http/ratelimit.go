package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/movelaria/estoque-api/internal/application/dto"
	"github.com/movelaria/estoque-api/internal/pkg/cache"
)

// ScanRateLimit limita leituras de código de barras por ator por minuto,
// usando um contador com expiração no cache. Falha do cache não bloqueia o
// balcão: a requisição passa.
func ScanRateLimit(c cache.Client, perMinute int) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key := fmt.Sprintf("scan:%d:%s", GetActorID(ctx), time.Now().Format("200601021504"))

		count, err := c.GetInt(ctx.Context(), key)
		if err != nil && err != cache.ErrCacheMiss {
			return ctx.Next()
		}
		if err == cache.ErrCacheMiss {
			if err := c.Set(ctx.Context(), key, 1, time.Minute); err != nil {
				return ctx.Next()
			}
			return ctx.Next()
		}
		if count >= perMinute {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "limite de leituras por minuto atingido",
			})
		}
		if err := c.Incr(ctx.Context(), key); err != nil {
			return ctx.Next()
		}
		return ctx.Next()
	}
}
