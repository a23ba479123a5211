package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nimbus-apps/adminpanel/internal/models"
)

// OTPValidity is the fixed lifetime of a one-time code.
const OTPValidity = 10 * time.Minute

// ErrCodeInvalid covers both a mismatched and an expired code; callers must
// not distinguish the two towards the user.
var ErrCodeInvalid = errors.New("code invalid or expired")

// OTPStore creates and consumes one-time codes.
type OTPStore struct {
	db *gorm.DB
}

// NewOTPStore constructs an OTPStore.
func NewOTPStore(db *gorm.DB) *OTPStore {
	return &OTPStore{db: db}
}

// Create stores a new code for the email with the fixed validity window.
// Outstanding codes for the same email stay valid until consumed or expired.
func (s *OTPStore) Create(ctx context.Context, email, code string) error {
	record := models.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(OTPValidity),
	}
	if errCreate := s.db.WithContext(ctx).Create(&record).Error; errCreate != nil {
		return fmt.Errorf("store: create otp: %w", errCreate)
	}
	return nil
}

// Consume verifies a code for an email and deletes it in the same
// transaction, making codes single-use. Expiry is checked against the wall
// clock; the match requires email, code and an unexpired window together.
func (s *OTPStore) Consume(ctx context.Context, email, code string) error {
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.OTP
		errFind := tx.Where("email = ? AND code = ? AND expires_at > ?", email, code, time.Now().UTC()).
			Order("created_at DESC").
			First(&record).Error
		if errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrCodeInvalid
			}
			return errFind
		}
		return tx.Delete(&record).Error
	})
	if errTx != nil {
		if errors.Is(errTx, ErrCodeInvalid) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("store: consume otp: %w", errTx)
	}
	return nil
}

// DeleteExpired removes codes past their expiry and returns the count.
func (s *OTPStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", time.Now().UTC()).Delete(&models.OTP{})
	if res.Error != nil {
		return 0, fmt.Errorf("store: delete expired otps: %w", res.Error)
	}
	return res.RowsAffected, nil
}
