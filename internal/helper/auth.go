package helper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SundayYogurt/application_service/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
)

// Auth validates reviewer session tokens issued by the credential store.
// Tokens are HS256 JWTs signed with the shared secret.
type Auth struct {
	Secret string
}

type reviewerClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func SetupAuth(s string) Auth {
	return Auth{
		Secret: s,
	}
}

// GenerateToken signs a reviewer token. The credential store owns issuance in
// production; this is used by local tooling and tests.
func (a Auth) GenerateToken(reviewerID, email, role string, ttl time.Duration) (string, error) {
	if reviewerID == "" || email == "" || role == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, reviewerClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   reviewerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

func (a Auth) VerifyToken(tokenString string) (dto.Reviewer, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.Reviewer{}, errors.New("missing token")
	}

	// support both "Bearer <token>" and "<token>"
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return dto.Reviewer{}, errors.New("invalid token format")
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	claims := &reviewerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dto.Reviewer{}, errors.New("token expired")
		}
		return dto.Reviewer{}, errors.New("token parse error")
	}
	if !token.Valid || claims.Subject == "" {
		return dto.Reviewer{}, errors.New("invalid token claims")
	}

	return dto.Reviewer{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

func GetCurrentReviewer(ctx *fiber.Ctx) (dto.Reviewer, error) {
	r, ok := ctx.Locals("reviewer").(dto.Reviewer)
	if !ok {
		return dto.Reviewer{}, errors.New("missing reviewer in context")
	}
	return r, nil
}

// HashPassword hashes plain with bcrypt at cost; 0 means bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
