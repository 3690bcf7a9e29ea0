package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/rbac"
)

type AuthService struct {
	hmac []byte
	ttl  time.Duration
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &AuthService{hmac: []byte(secret), ttl: ttl}
}

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // SUPERADMIN | ADMIN | TEACHER
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "qbank",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// UserFinder is the slice of the store login needs.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (bank.User, error)
}

type loginResult struct {
	AccessToken string    `json:"accessToken"`
	User        bank.User `json:"user"`
}

// POST /auth/login  { "email": "...", "password": "..." }
func LoginHandler(a *AuthService, users UserFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		u, err := users.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, bank.ErrNotFound) {
				writeErr(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			writeErr(w, http.StatusInternalServerError, "lookup user")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			writeErr(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		tok, err := a.IssueJWT(strconv.FormatInt(u.ID, 10), string(u.Role))
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "issue token")
			return
		}
		writeJSON(w, http.StatusOK, bank.Response[loginResult]{
			StatusCode: http.StatusOK, Success: true, Message: "logged in",
			Data: loginResult{AccessToken: tok, User: u},
		})
	}
}

// JWTMiddleware verifies the bearer token and puts its subject and role on the context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeErr(w, http.StatusUnauthorized, "missing bearer")
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				writeErr(w, http.StatusUnauthorized, "bad token")
				return
			}
			ctx := WithSubject(r.Context(), c.Sub)
			ctx = rbac.WithRole(ctx, bank.Role(c.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, bank.Response[any]{StatusCode: status, Message: msg})
}
