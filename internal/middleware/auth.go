package middleware

import (
	"errors"

	"github.com/brahdyssey/itimeline-backend/internal/config"
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// JWTOptional validates a token when one is presented but lets anonymous
// requests through. Report submission allows anonymous reporters.
func JWTOptional(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		Filter: func(c *fiber.Ctx) bool {
			return c.Get("Authorization") == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// UserID extracts the authenticated user's UUID from JWT claims.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}

// OptionalUserID returns the authenticated user's UUID, or nil when the
// request is anonymous.
func OptionalUserID(c *fiber.Ctx) *uuid.UUID {
	id, err := UserID(c)
	if err != nil {
		return nil
	}
	return &id
}
