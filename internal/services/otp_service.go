package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uiforge/uiforge/internal/models"
	"github.com/uiforge/uiforge/pkg/crypto"
	"github.com/uiforge/uiforge/pkg/logger"
	"github.com/uiforge/uiforge/pkg/mail"
)

const (
	defaultCodeTTL    = 10 * time.Minute
	defaultCodeDigits = 6
)

// DeliveryResult reports the outcome of the best-effort passcode email.
// Delivery failure never fails issuance; the caller can inspect the result
// and the code stays valid for its full TTL either way.
type DeliveryResult struct {
	Delivered bool
	Reason    error // nil when Delivered, mail.ErrSMTPDisabled when delivery is off
}

// OTPOption customises the OTPService.
type OTPOption func(*OTPService)

// WithOTPClock injects a custom time source.
func WithOTPClock(clock func() time.Time) OTPOption {
	return func(s *OTPService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithOTPTTL overrides the passcode lifetime.
func WithOTPTTL(d time.Duration) OTPOption {
	return func(s *OTPService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithOTPDigits adjusts the passcode length.
func WithOTPDigits(digits int) OTPOption {
	return func(s *OTPService) {
		if digits > 0 {
			s.digits = digits
		}
	}
}

// OTPService issues and verifies single-use login passcodes. At most one
// passcode is outstanding per identifier; any verification attempt that finds
// a record consumes it, whatever the outcome.
type OTPService struct {
	db     *gorm.DB
	mailer mail.Mailer
	ttl    time.Duration
	digits int
	now    func() time.Time
	log    *zap.Logger
}

// NewOTPService constructs an OTP service with the provided dependencies.
// The mailer may be nil, in which case codes are only retrievable through
// the debug log.
func NewOTPService(db *gorm.DB, mailer mail.Mailer, opts ...OTPOption) (*OTPService, error) {
	if db == nil {
		return nil, errors.New("otp service: db is required")
	}

	service := &OTPService{
		db:     db,
		mailer: mailer,
		ttl:    defaultCodeTTL,
		digits: defaultCodeDigits,
		now:    time.Now,
		log:    logger.WithModule("otp"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Issue generates a fresh passcode for the identifier, replaces any prior
// outstanding code, and dispatches it by email. The returned code is for the
// caller's internal use (tests, debug channels); API handlers must not echo
// it to clients.
func (s *OTPService) Issue(ctx context.Context, identifier string) (string, DeliveryResult, error) {
	identifier = normalizeIdentifier(identifier)
	if identifier == "" {
		return "", DeliveryResult{}, errors.New("otp service: identifier is required")
	}

	code, err := crypto.GenerateNumericCode(s.digits)
	if err != nil {
		return "", DeliveryResult{}, fmt.Errorf("otp service: generate code: %w", err)
	}

	now := s.now()
	record := models.LoginCode{
		Identifier: identifier,
		CodeHash:   crypto.HashCode(code),
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.ttl),
	}

	// Replace-then-create inside one transaction keeps the one-live-code-per-
	// identifier invariant even under concurrent issuance.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("identifier = ?", identifier).
			Delete(&models.LoginCode{}).Error; err != nil {
			return fmt.Errorf("replace existing: %w", err)
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("create: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", DeliveryResult{}, fmt.Errorf("otp service: store code: %w", err)
	}

	delivery := s.deliver(ctx, identifier, code)
	if !delivery.Delivered {
		if errors.Is(delivery.Reason, mail.ErrSMTPDisabled) {
			s.log.Debug("delivery disabled; passcode available here",
				zap.String("identifier", identifier),
				zap.String("code", code),
			)
		} else {
			s.log.Warn("passcode delivery failed",
				zap.String("identifier", identifier),
				zap.Error(delivery.Reason),
			)
			s.log.Debug("undelivered passcode", zap.String("code", code))
		}
	}

	return code, delivery, nil
}

// Verify consumes the passcode for the identifier. The check and the delete
// are a single conditional DELETE keyed on (identifier, code hash), so two
// concurrent attempts with the same code cannot both succeed.
func (s *OTPService) Verify(ctx context.Context, identifier, code string) error {
	identifier = normalizeIdentifier(identifier)
	code = strings.TrimSpace(code)
	if identifier == "" || code == "" {
		return ErrCodeInvalid
	}

	hash := crypto.HashCode(code)

	var record models.LoginCode
	err := s.db.WithContext(ctx).
		Where("identifier = ? AND code_hash = ?", identifier, hash).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("otp service: find code: %w", err)
	}

	res := s.db.WithContext(ctx).
		Where("identifier = ? AND code_hash = ?", identifier, hash).
		Delete(&models.LoginCode{})
	if res.Error != nil {
		return fmt.Errorf("otp service: consume code: %w", res.Error)
	}

	if s.now().After(record.ExpiresAt) {
		return ErrCodeExpired
	}
	if res.RowsAffected == 0 {
		// Another verifier consumed the record between our read and delete.
		return ErrCodeInvalid
	}

	return nil
}

// SweepExpired removes passcodes past their TTL. Expired records are inert
// (verification checks expiry on read), so this only reclaims storage.
func (s *OTPService) SweepExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", s.now()).
		Delete(&models.LoginCode{})
	if res.Error != nil {
		return 0, fmt.Errorf("otp service: sweep expired: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *OTPService) deliver(ctx context.Context, identifier, code string) DeliveryResult {
	if s.mailer == nil {
		return DeliveryResult{Reason: mail.ErrSMTPDisabled}
	}

	message := mail.Message{
		To:      []string{identifier},
		Subject: "Your UIForge login code",
		Body: fmt.Sprintf(
			"Your verification code is: %s\n\nThis code will expire in %d minutes.\n\nIf you did not request a code, you can ignore this message.\n",
			code, int(s.ttl.Minutes()),
		),
	}

	if err := s.mailer.Send(ctx, message); err != nil {
		return DeliveryResult{Reason: err}
	}

	return DeliveryResult{Delivered: true}
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
