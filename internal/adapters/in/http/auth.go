package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

const (
	RoleDriver = "driver"
	RoleAdmin  = "admin"

	principalKey = "principal"
	driverKey    = "driver_id"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID kernel.UUID
	Role   string
}

// Authenticate verifies an HS256 bearer token. sub must be a user id and
// role one of RoleDriver or RoleAdmin; exp is enforced when present.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			principal, err := parseToken(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

func parseToken(raw string, secret []byte) (Principal, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	userID, err := kernel.UUIDFromString(sub)
	if err != nil {
		return Principal{}, fmt.Errorf("sub: %w", err)
	}

	role, _ := claims["role"].(string)
	if role != RoleDriver && role != RoleAdmin {
		return Principal{}, fmt.Errorf("unknown role %q", role)
	}

	return Principal{UserID: userID, Role: role}, nil
}

// RequireRole lets through only principals holding role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := c.Get(principalKey).(Principal)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if p.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "requires role "+role)
			}
			return next(c)
		}
	}
}

// ResolveDriver looks up the driver profile of the authenticated user and
// stores its id for the driver handlers.
func ResolveDriver(handler Handler[queries.GetDriverByUserQuery, queries.GetDriverByUserResponse]) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := c.Get(principalKey).(Principal)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			query, err := queries.NewGetDriverByUserQuery(p.UserID)
			if err != nil {
				return err
			}
			d, err := handler.Handle(c.Request().Context(), query)
			if err != nil {
				return err
			}

			c.Set(driverKey, d.ID)
			return next(c)
		}
	}
}

func driverID(c echo.Context) kernel.UUID {
	id, _ := c.Get(driverKey).(kernel.UUID)
	return id
}
