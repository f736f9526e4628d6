package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/mytheresa/product-catalog/models"
)

// ErrInvalidFormSession is returned for tokens that are malformed, expired
// or signed with another secret.
var ErrInvalidFormSession = errors.New("invalid form session")

const defaultFormSessionTTL = time.Hour

// FormSession carries the product being edited from the edit page to the
// form submission in a signed hidden field. Only the fields the form does
// not expose travel in the token.
type FormSession struct {
	secret []byte
	ttl    time.Duration
}

type formClaims struct {
	ProductID string    `json:"pid"`
	CreatedAt time.Time `json:"created"`
	Photo     string    `json:"photo,omitempty"`
	jwt.RegisteredClaims
}

func NewFormSession(secret string) *FormSession {
	return &FormSession{secret: []byte(secret), ttl: defaultFormSessionTTL}
}

// Issue signs the identity of p.
func (s *FormSession) Issue(p *models.Product) (string, error) {
	now := time.Now()
	claims := formClaims{
		ProductID: p.ID,
		CreatedAt: p.CreatedAt,
		Photo:     p.Photo,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign form session: %w", err)
	}
	return token, nil
}

// Restore verifies token and returns the product skeleton it carries.
func (s *FormSession) Restore(token string) (*models.Product, error) {
	var claims formClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormSession, err)
	}
	if claims.ProductID == "" {
		return nil, ErrInvalidFormSession
	}
	return &models.Product{
		ID:        claims.ProductID,
		CreatedAt: claims.CreatedAt,
		Photo:     claims.Photo,
	}, nil
}
