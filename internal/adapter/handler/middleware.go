package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srgjo27/hotel_frontdesk/internal/config"
	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

const (
	headerRequestID     = "X-Request-ID"
	contextKeyRequestID = "request_id"
)

// OperatorClaims are issued by the hotel's identity service. The subject
// is the operator id.
type OperatorClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// RequestID reuses the caller's X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(contextKeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// OperatorAuth puts the operator identity from a bearer token on the
// request context. Without a secret configured every request runs as the
// anonymous operator. When required is false a missing token is allowed
// but a bad one is still rejected.
func OperatorAuth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if cfg.JWTSecret == "" || (token == "" && !cfg.Required) {
			c.Next()
			return
		}
		if token == "" {
			fail(c, errUnauthorized)
			return
		}

		op, err := parseOperator(token, cfg)
		if err != nil {
			fail(c, errUnauthorized.WithError(err))
			return
		}

		c.Request = c.Request.WithContext(domain.WithOperator(c.Request.Context(), op))
		c.Next()
	}
}

func parseOperator(token string, cfg config.AuthConfig) (domain.Operator, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &OperatorClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return domain.Operator{}, err
	}
	if claims.Subject == "" {
		return domain.Operator{}, errors.New("token has no subject")
	}
	return domain.Operator{ID: claims.Subject, Name: claims.Name}, nil
}

func extractToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
