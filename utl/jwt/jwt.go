package jwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

const signingAlgorithm = "HS256"

var (
	ErrInvalidHeader = errors.New("invalid authorization header")
	ErrInvalidToken  = errors.New("invalid token")
)

type Service struct {
	key  []byte
	algo jwt.SigningMethod
	ttl  time.Duration
	now  func() time.Time
}

// New generates new JWT service necessary for auth middleware.
func New(secret string, ttl time.Duration) (Service, error) {
	if secret == "" {
		return Service{}, errors.New("jwt secret is required")
	}

	signingMethod := jwt.GetSigningMethod(signingAlgorithm)
	if signingMethod == nil {
		return Service{}, errors.New("invalid jwt signing method " + signingAlgorithm)
	}

	return Service{
		key:  []byte(secret),
		algo: signingMethod,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

// ParseToken parses token from Authorization header.
func (s Service) ParseToken(authHeader string) (*jwt.Token, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return nil, ErrInvalidHeader
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if s.algo != token.Method {
			return nil, ErrInvalidToken
		}

		return s.key, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	return token, nil
}

// GenerateAccessToken issues a token for the subject, e.g. a miner operator.
func (s Service) GenerateAccessToken(subject string) (string, error) {
	now := s.now()

	tokenString, err := jwt.NewWithClaims(s.algo, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}).SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return tokenString, nil
}
