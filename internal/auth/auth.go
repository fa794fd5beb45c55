package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const subjectKey contextKey = "subject"

// TokenTTL is the lifetime of an admin token.
const TokenTTL = 12 * time.Hour

const adminSubject = "calibration-admin"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDisabled           = errors.New("admin access not configured")
)

// Authenv guards calibration writes with stateless admin tokens.
type Authenv struct {
	JWTkey    []byte
	AdminHash []byte
	Log       *zap.Logger
	now       func() time.Time
}

type Tokenrequest struct {
	Password string `json:"password"`
}

type Tokenresponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (env *Authenv) clock() time.Time {
	if env.now != nil {
		return env.now()
	}
	return time.Now()
}

func (env *Authenv) logger() *zap.Logger {
	if env.Log == nil {
		return zap.NewNop()
	}
	return env.Log
}

// Enabled reports whether both a signing key and an admin hash are set.
func (env *Authenv) Enabled() bool {
	return len(env.JWTkey) > 0 && len(env.AdminHash) > 0
}

// IssueToken checks password against the admin hash and signs a token.
func (env *Authenv) IssueToken(password string) (Tokenresponse, error) {
	if !env.Enabled() {
		return Tokenresponse{}, ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword(env.AdminHash, []byte(password)); err != nil {
		return Tokenresponse{}, ErrInvalidCredentials
	}
	exp := env.clock().Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(env.clock()),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString(env.JWTkey)
	if err != nil {
		return Tokenresponse{}, fmt.Errorf("sign token: %w", err)
	}
	return Tokenresponse{Token: signed, ExpiresAt: exp}, nil
}

// Verify parses an admin token and returns its subject.
func (env *Authenv) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	}, jwt.WithTimeFunc(env.clock), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject != adminSubject {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}

func (env *Authenv) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var req Tokenrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "Password required", http.StatusBadRequest)
		return
	}
	resp, err := env.IssueToken(req.Password)
	switch {
	case errors.Is(err, ErrDisabled):
		http.Error(w, "Admin access disabled", http.StatusServiceUnavailable)
		return
	case errors.Is(err, ErrInvalidCredentials):
		env.logger().Warn("admin login rejected", zap.String("remote", r.RemoteAddr))
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	case err != nil:
		env.logger().Error("issue token", zap.Error(err))
		http.Error(w, "Token error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		env.logger().Error("encode response", zap.Error(err))
	}
}

// AdminMiddleware requires a valid "Authorization: Bearer <token>" header.
func (env *Authenv) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		subject, err := env.Verify(raw)
		if err != nil {
			env.logger().Info("admin token rejected", zap.Error(err))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Subject returns the authenticated subject stored by AdminMiddleware.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}
