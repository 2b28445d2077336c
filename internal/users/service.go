package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthscan/backend/internal/token"
)

// ErrDuplicateEmail is returned when registering with an email that already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrInvalidCredentials covers both unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterInput carries the required registration fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Country   string
	Gender    string
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, u *User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*User, string, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

type service struct {
	repo          Store
	codec         *token.Codec
	signupCredits int
}

// NewService creates the account service. signupCredits is the starting
// balance granted to every new registration.
func NewService(repo Store, codec *token.Codec, signupCredits int) Service {
	return &service{repo: repo, codec: codec, signupCredits: signupCredits}
}

var _ Service = (*service)(nil)

func (s *service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u := &User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     strings.ToLower(in.Email),
		Country:   in.Country,
		Gender:    in.Gender,
		Role:      "user",
		Credits:   s.signupCredits,
	}
	if err := s.repo.Create(ctx, u, string(hash)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", err
	}
	tok, err := s.codec.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, hash, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	// Best effort; login must not fail on a bookkeeping write.
	_ = s.repo.TouchLastLogin(ctx, u.ID)
	tok, err := s.codec.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
