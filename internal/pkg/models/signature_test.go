package models

import (
	"testing"
	"time"
)

func TestSignatureKey_OrderIndependent(t *testing.T) {
	day := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)

	k1 := SignatureKey("jamaica", "bermuda", day)
	k2 := SignatureKey("bermuda", "jamaica", day)

	if k1 != k2 {
		t.Errorf("signature must not depend on team order: %q vs %q", k1, k2)
	}
	if k1 != Signature("bermuda|jamaica|2026-08-31") {
		t.Errorf("unexpected signature format: %q", k1)
	}
}

func TestSignatureKey_ZeroDate(t *testing.T) {
	k := SignatureKey("a", "b", time.Time{})
	if k != Signature("a|b|unknown-date") {
		t.Errorf("unexpected signature for zero date: %q", k)
	}
}

func TestSignatureKey_DifferentDaysDiffer(t *testing.T) {
	d1 := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)
	if SignatureKey("a", "b", d1) == SignatureKey("a", "b", d2) {
		t.Error("same teams on different days must produce different signatures")
	}
}
