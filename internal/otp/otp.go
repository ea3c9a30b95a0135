// Package otp implements passwordless login codes: issuing, verification
// with an attempt budget, and expiry sweeping.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/notify"
	"github.com/example/curemart/internal/storage"
)

var (
	// ErrExpired is returned when the stored code's lifetime has passed.
	// The code is deleted as a side effect.
	ErrExpired = errors.New("otp expired")

	// ErrInvalidCode is returned on a wrong code while attempts remain.
	ErrInvalidCode = errors.New("invalid otp code")

	// ErrAttemptsExhausted is returned once the attempt budget is spent.
	// The code is deleted as a side effect.
	ErrAttemptsExhausted = errors.New("too many failed attempts, request a new code")
)

const (
	codeLength  = 6
	codeTTL     = 5 * time.Minute
	maxAttempts = 3

	sweepInterval = 10 * time.Minute
)

// Service issues and verifies one-time codes. At most one live code exists
// per identifier; requesting again overwrites the previous one.
type Service struct {
	store storage.Store
	bus   *notify.Bus
	log   *zap.SugaredLogger
}

// NewService constructs a Service.
func NewService(store storage.Store, bus *notify.Bus, log *zap.SugaredLogger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// generateCode returns a zero-padded numeric code from crypto/rand.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", codeLength, n), nil
}

// Request issues a fresh code for the identifier over the given channel
// ("sms" or "email") and publishes it for delivery. Only the expiry is
// returned; the code itself travels exclusively over the channel.
func (s *Service) Request(ctx context.Context, identifier, channel, name string) (time.Time, error) {
	code, err := generateCode()
	if err != nil {
		return time.Time{}, err
	}

	expiresAt := time.Now().Add(codeTTL)
	record := &models.OTP{
		Identifier: identifier,
		Code:       code,
		Channel:    channel,
		ExpiresAt:  expiresAt,
	}
	if err := s.store.OTPs().Save(ctx, record); err != nil {
		return time.Time{}, err
	}

	s.bus.Publish(notify.OTPIssued{
		Identifier: identifier,
		Channel:    channel,
		Name:       name,
		Code:       code,
		ExpiresAt:  expiresAt,
	})

	s.log.Infof("otp issued for %s via %s", identifier, channel)
	return expiresAt, nil
}

// Verify checks a submitted code. On success the record is marked verified
// and kept so the login handler can complete the exchange; callers must
// Consume it afterwards. Expired codes and exhausted attempt budgets delete
// the record.
func (s *Service) Verify(ctx context.Context, identifier, code string) error {
	record, err := s.store.OTPs().Find(ctx, identifier)
	if err != nil {
		return err
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.store.OTPs().Delete(ctx, identifier); err != nil {
			s.log.Errorf("otp cleanup for %s failed: %v", identifier, err)
		}
		return ErrExpired
	}

	if record.Attempts >= maxAttempts {
		if err := s.store.OTPs().Delete(ctx, identifier); err != nil {
			s.log.Errorf("otp cleanup for %s failed: %v", identifier, err)
		}
		return ErrAttemptsExhausted
	}

	if record.Code != code {
		record.Attempts++
		if err := s.store.OTPs().Save(ctx, record); err != nil {
			s.log.Errorf("otp attempt count for %s failed: %v", identifier, err)
		}
		remaining := maxAttempts - record.Attempts
		return fmt.Errorf("%w: %d attempts remaining", ErrInvalidCode, remaining)
	}

	record.Verified = true
	return s.store.OTPs().Save(ctx, record)
}

// Consume removes the code after a completed login so it cannot be replayed.
func (s *Service) Consume(ctx context.Context, identifier string) error {
	return s.store.OTPs().Delete(ctx, identifier)
}

// StartSweeper launches a background loop that purges expired codes until
// the context is cancelled.
func (s *Service) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.store.OTPs().DeleteExpired(ctx, time.Now())
				if err != nil {
					s.log.Errorf("otp sweep failed: %v", err)
					continue
				}
				if n > 0 {
					s.log.Infof("otp sweep removed %d expired codes", n)
				}
			}
		}
	}()
}
