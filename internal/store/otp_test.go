package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimbus-apps/adminpanel/internal/models"
)

func TestConsumeValidCodeOnce(t *testing.T) {
	conn := setupTestDB(t)
	otps := NewOTPStore(conn)
	ctx := context.Background()

	if errCreate := otps.Create(ctx, "a@x.com", "A1B2C3"); errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if errConsume := otps.Consume(ctx, "a@x.com", "A1B2C3"); errConsume != nil {
		t.Fatalf("consume: %v", errConsume)
	}
	// Second use of the same code must fail.
	if errAgain := otps.Consume(ctx, "a@x.com", "A1B2C3"); !errors.Is(errAgain, ErrCodeInvalid) {
		t.Fatalf("second consume = %v, want ErrCodeInvalid", errAgain)
	}
}

func TestConsumeWrongCode(t *testing.T) {
	conn := setupTestDB(t)
	otps := NewOTPStore(conn)
	ctx := context.Background()

	if errCreate := otps.Create(ctx, "b@x.com", "A1B2C3"); errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if errConsume := otps.Consume(ctx, "b@x.com", "FFFFFF"); !errors.Is(errConsume, ErrCodeInvalid) {
		t.Fatalf("consume = %v, want ErrCodeInvalid", errConsume)
	}
	// The stored code is untouched by the failed attempt.
	if errConsume := otps.Consume(ctx, "b@x.com", "A1B2C3"); errConsume != nil {
		t.Fatalf("consume correct code: %v", errConsume)
	}
}

func TestConsumeCodeForOtherEmail(t *testing.T) {
	conn := setupTestDB(t)
	otps := NewOTPStore(conn)
	ctx := context.Background()

	if errCreate := otps.Create(ctx, "owner@x.com", "A1B2C3"); errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if errConsume := otps.Consume(ctx, "thief@x.com", "A1B2C3"); !errors.Is(errConsume, ErrCodeInvalid) {
		t.Fatalf("consume = %v, want ErrCodeInvalid", errConsume)
	}
}

func TestConsumeExpiredCode(t *testing.T) {
	conn := setupTestDB(t)
	otps := NewOTPStore(conn)
	ctx := context.Background()

	expired := models.OTP{
		Email:     "c@x.com",
		Code:      "A1B2C3",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	if errCreate := conn.Create(&expired).Error; errCreate != nil {
		t.Fatalf("seed expired otp: %v", errCreate)
	}
	if errConsume := otps.Consume(ctx, "c@x.com", "A1B2C3"); !errors.Is(errConsume, ErrCodeInvalid) {
		t.Fatalf("consume = %v, want ErrCodeInvalid", errConsume)
	}
}

func TestDeleteExpiredKeepsLiveCodes(t *testing.T) {
	conn := setupTestDB(t)
	otps := NewOTPStore(conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record := models.OTP{
			Email:     "d@x.com",
			Code:      "DEAD0" + string(rune('0'+i)),
			ExpiresAt: time.Now().UTC().Add(-time.Hour),
		}
		if errCreate := conn.Create(&record).Error; errCreate != nil {
			t.Fatalf("seed: %v", errCreate)
		}
	}
	if errCreate := otps.Create(ctx, "d@x.com", "LIVE01"); errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	removed, errSweep := otps.DeleteExpired(ctx)
	if errSweep != nil {
		t.Fatalf("sweep: %v", errSweep)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	if errConsume := otps.Consume(ctx, "d@x.com", "LIVE01"); errConsume != nil {
		t.Fatalf("live code gone after sweep: %v", errConsume)
	}
}
