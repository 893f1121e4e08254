package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"verve/apierr"
	"verve/config"
	courseService "verve/services/course"
)

const (
	localUserID = "userId"
	localRole   = "role"
)

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uuid.UUID, name, role, email string) (string, error) {
	ttl := 24
	if config.AppConfig != nil && config.AppConfig.JWTTTLHours > 0 {
		ttl = config.AppConfig.JWTTTLHours
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID.String(),
		"name":   name,
		"role":   role,
		"email":  email,
		"iat":    now.Unix(),
		"exp":    now.Add(time.Duration(ttl) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func jwtSecret() []byte {
	if config.AppConfig == nil {
		return []byte("defaultSecret")
	}
	return []byte(config.AppConfig.JWTKey)
}

var (
	errMissingHeader = apierr.Unauthorized("Missing or invalid Authorization header")
	errHeaderFormat  = apierr.Unauthorized("Invalid Authorization header format")
	errInvalidToken  = apierr.Unauthorized("Invalid or expired token")
	errTokenPayload  = apierr.Unauthorized("Invalid token payload")
)

// parseBearer validates the Authorization header and returns the identity it carries.
func parseBearer(authHeader string) (courseService.Viewer, error) {
	if authHeader == "" {
		return courseService.Viewer{}, errMissingHeader
	}
	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return courseService.Viewer{}, errHeaderFormat
	}
	tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return courseService.Viewer{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return courseService.Viewer{}, errTokenPayload
	}
	raw, _ := claims["userId"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		return courseService.Viewer{}, errTokenPayload
	}
	role, _ := claims["role"].(string)
	return courseService.Viewer{ID: userID, Role: role}, nil
}

// JWTMiddleware rejects the request unless it carries a valid bearer token, then
// attaches userId and role to the request context.
func JWTMiddleware(c *fiber.Ctx) error {
	viewer, err := parseBearer(c.Get("Authorization"))
	if err != nil {
		return ErrorResponse(c, err)
	}
	c.Locals(localUserID, viewer.ID)
	c.Locals(localRole, viewer.Role)
	return c.Next()
}

// OptionalJWT attaches the identity when a valid token is present and lets anonymous
// requests through.
func OptionalJWT(c *fiber.Ctx) error {
	if viewer, err := parseBearer(c.Get("Authorization")); err == nil {
		c.Locals(localUserID, viewer.ID)
		c.Locals(localRole, viewer.Role)
	}
	return c.Next()
}

// CurrentViewer returns the identity attached by the JWT middleware, zero if anonymous.
func CurrentViewer(c *fiber.Ctx) courseService.Viewer {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	role, _ := c.Locals(localRole).(string)
	return courseService.Viewer{ID: id, Role: role}
}
