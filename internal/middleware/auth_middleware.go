package middleware

import (
	"context"
	"errors"

	"github.com/muhammedkh45/Echoo/internal/services"
	"github.com/muhammedkh45/Echoo/internal/transport/httpdto"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (services.Identity, error)
}

// AuthMiddleware authenticates the Authorization header with the same
// "<scheme> <token>" rules as the socket handshake.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			// a store outage is not the caller's fault
			if !errors.Is(err, echoo_errors.ErrStoreUnavailable) {
				err = echoo_errors.ErrUnauthorized
			}
			c.AbortWithStatusJSON(echoo_errors.HTTPStatus(err), httpdto.ErrorResponseFor(err))
			return
		}

		ctx := services.WithIdentity(c.Request.Context(), identity)
		ctx = context.WithValue(ctx, logger.UserIdKey, identity.User.ID.Hex())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
