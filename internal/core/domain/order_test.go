package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	number := NewOrderNumber(now)

	if !strings.HasPrefix(number, "SCY-20250314092653-") {
		t.Errorf("unexpected prefix: %s", number)
	}
	suffix := strings.TrimPrefix(number, "SCY-20250314092653-")
	if len(suffix) != 4 {
		t.Errorf("expected 4-char suffix, got %q", suffix)
	}
	if suffix != strings.ToUpper(suffix) {
		t.Errorf("suffix not uppercase: %q", suffix)
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range OrderStatuses {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []OrderStatus{"shipped", "confirmed", "", "PENDING"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestPaymentStatus_Valid(t *testing.T) {
	for _, s := range PaymentStatuses {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if PaymentStatus("successful").Valid() {
		t.Error("successful belongs to transactions, not orders")
	}
}

func TestPaymentMethod_Valid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodMobileMoney, PaymentMethodCard, PaymentMethodCash} {
		if !m.Valid() {
			t.Errorf("%s should be valid", m)
		}
	}
	if PaymentMethod("bitcoin").Valid() {
		t.Error("bitcoin should be invalid")
	}
}

func TestValidationError_NamesEveryField(t *testing.T) {
	err := &ValidationError{Missing: []string{"paymentMethod", "address"}}
	msg := err.Error()
	if !strings.Contains(msg, "paymentMethod") || !strings.Contains(msg, "address") {
		t.Errorf("message should name all missing fields: %s", msg)
	}
}

func TestInvalidStatusError_EchoesValidSet(t *testing.T) {
	err := &InvalidStatusError{Given: "shipped", Valid: []string{"pending", "processing", "delivered", "cancelled"}}
	msg := err.Error()
	for _, want := range []string{"shipped", "pending", "processing", "delivered", "cancelled"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q: %s", want, msg)
		}
	}
}
