package apihttp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sharpline/internal/logger"
	"sharpline/internal/quota"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxIdentity     = "identity"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s rid=%s",
			c.Request.Method, path, c.Writer.Status(), c.ClientIP(), time.Since(start), c.GetString(ctxRequestID))
	}
}

// identity resolves the caller from an HS256 bearer token whose subject is the
// user id. No token means guest; a bad token is rejected. With an empty secret
// every caller is a guest.
func identity(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		id := quota.Identity{}
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if secret != "" && header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				abortJSON(c, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			sub, err := parseSubject(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), key)
			if err != nil {
				abortJSON(c, http.StatusUnauthorized, "invalid token")
				return
			}
			id.UserID = sub
		}
		c.Set(ctxIdentity, id)
		c.Next()
	}
}

func parseSubject(token string, key []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("token has no subject")
	}
	return strings.TrimSpace(claims.Subject), nil
}

func identityFrom(c *gin.Context) quota.Identity {
	if v, ok := c.Get(ctxIdentity); ok {
		if id, ok := v.(quota.Identity); ok {
			return id
		}
	}
	return quota.Identity{}
}

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}
