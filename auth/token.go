package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"partyinvite/models"
)

// ErrInvalidToken covers every verification failure: bad signature,
// expiry, wrong algorithm and malformed input are not told apart.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the administrator a verified token speaks for.
type Identity struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, expiration time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

func (i *Issuer) Issue(user *models.User) (string, error) {
	now := i.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
