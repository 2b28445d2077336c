package quota

import (
	"context"
	"errors"
	"time"
)

// ErrDailyLimitReached denies an anonymous scan past the per-IP daily cap.
var ErrDailyLimitReached = errors.New("daily anonymous scan limit reached")

// ErrInsufficientCredits denies an authenticated scan or a credit change
// that would drive the balance negative.
var ErrInsufficientCredits = errors.New("insufficient credits")

// Store is the atomic counter surface the ledger requires. Implementations
// must serialize each read-modify-write per key.
type Store interface {
	IncrementDaily(ctx context.Context, ip, date string, limit int) (int, bool, error)
	DailyCount(ctx context.Context, ip, date string) (int, error)
	SpendCredit(ctx context.Context, userID int64) (int, bool, error)
	AdjustCredits(ctx context.Context, userID int64, delta int) (int, bool, error)
}

// Service is the quota ledger: anonymous per-(IP, UTC day) scan counters and
// authenticated credit balances. Both paths charge on admission; a pipeline
// failure after admission does not refund.
type Service struct {
	store Store
	limit int
	now   func() time.Time
}

func NewService(store Store, limit int) *Service {
	return &Service{store: store, limit: limit, now: time.Now}
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// AdmitAnonymous admits one anonymous scan for ip, consuming a slot of the
// daily allowance. Fails closed: a store error denies.
func (s *Service) AdmitAnonymous(ctx context.Context, ip string) error {
	_, admitted, err := s.store.IncrementDaily(ctx, ip, s.today(), s.limit)
	if err != nil {
		return err
	}
	if !admitted {
		return ErrDailyLimitReached
	}
	return nil
}

// AdmitAuthenticated consumes one credit and returns the new balance.
func (s *Service) AdmitAuthenticated(ctx context.Context, userID int64) (int, error) {
	balance, admitted, err := s.store.SpendCredit(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !admitted {
		return 0, ErrInsufficientCredits
	}
	return balance, nil
}

// RecordCreditChange applies delta to the user's balance. A decrement that
// would go below zero is rejected.
func (s *Service) RecordCreditChange(ctx context.Context, userID int64, delta int) (int, error) {
	balance, ok, err := s.store.AdjustCredits(ctx, userID, delta)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrInsufficientCredits
	}
	return balance, nil
}

// AnonymousUsage reports today's consumption for ip.
func (s *Service) AnonymousUsage(ctx context.Context, ip string) (used, limit int, err error) {
	used, err = s.store.DailyCount(ctx, ip, s.today())
	return used, s.limit, err
}
