package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential is the single failure outcome of Verify. Parse
// errors, signature mismatches and expiry all collapse into it so a caller
// cannot tell which check failed.
var ErrInvalidCredential = errors.New("invalid credential")

// DefaultTTL is the credential validity window.
const DefaultTTL = 7 * 24 * time.Hour

// Claims is the verified content of a credential.
type Claims struct {
	UserID int64
	Role   string
}

// Codec issues and verifies signed, time-limited bearer credentials.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: secret, ttl: ttl, now: time.Now}
}

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Issue signs a credential for the given subject, valid for the codec's TTL.
func (c *Codec) Issue(userID int64, role string) (string, error) {
	now := c.now()
	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Role: role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	return tok.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// Malformed input is not an exceptional case; it is just invalid.
func (c *Codec) Verify(raw string) (Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidCredential
	}
	cl, ok := tok.Claims.(*claims)
	if !ok {
		return Claims{}, ErrInvalidCredential
	}
	id, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidCredential
	}
	return Claims{UserID: id, Role: cl.Role}, nil
}
