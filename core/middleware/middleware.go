package middleware

import (
	"context"

	"confhub/core/constants"
	"confhub/core/controller"
	"confhub/core/errors"
	"confhub/core/utils"

	"github.com/labstack/echo/v4"
)

// TokenChecker is the slice of the auth service the middleware needs.
type TokenChecker interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type Middleware struct {
	controller.BaseController
	tokens TokenChecker
}

func NewMiddleware(tokens TokenChecker) *Middleware {
	return &Middleware{
		BaseController: controller.NewBaseController(),
		tokens:         tokens,
	}
}

// AuthMiddleware validates the bearer token, rejects blacklisted tokens and
// stores the parsed claims on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := utils.GetTokenFromHeader(ctx)
			if err != nil {
				return m.Unauthorized(errors.ErrMissingAuthorizationHeader, "Authorization header required")
			}

			if m.tokens != nil {
				blacklisted, err := m.tokens.IsTokenBlacklisted(ctx.Request().Context(), token)
				if err == nil && blacklisted {
					return m.Unauthorized(errors.ErrUnauthorized, "Token has been revoked")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return m.Unauthorized(errors.ErrTokenExpired, "Invalid or expired token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return m.Unauthorized(errors.ErrInvalidTokenFormat, "Invalid token scope")
			}

			ctx.Set(constants.ContextTokenData, claims)
			return next(ctx)
		}
	}
}

// RequireRole guards a route group behind one of the given roles. It must be
// registered after AuthMiddleware.
func (m *Middleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenData := ctx.Get(constants.ContextTokenData)
			claims, ok := tokenData.(*utils.TokenClaims)
			if !ok || claims == nil {
				return m.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return m.Forbidden(errors.ErrForbidden, "Insufficient role for this operation")
			}
			return next(ctx)
		}
	}
}
