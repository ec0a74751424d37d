package entity

import (
	"testing"
	"time"
)

func activePromo() Promotion {
	now := time.Now()
	return Promotion{
		Code:          "SAVE20",
		DiscountType:  DiscountPercentage,
		DiscountValue: 20,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(time.Hour),
		IsActive:      true,
	}
}

func TestPromotionValid(t *testing.T) {
	now := time.Now()

	promo := activePromo()
	if !promo.Valid(now) {
		t.Fatalf("expected active promo to be valid")
	}

	inactive := activePromo()
	inactive.IsActive = false
	if inactive.Valid(now) {
		t.Fatalf("inactive promo should not be valid")
	}

	expired := activePromo()
	expired.ValidUntil = now.Add(-time.Minute)
	if expired.Valid(now) {
		t.Fatalf("expired promo should not be valid")
	}

	limit := 5
	exhausted := activePromo()
	exhausted.UsageLimit = &limit
	exhausted.TimesUsed = 5
	if exhausted.Valid(now) {
		t.Fatalf("exhausted promo should not be valid")
	}
}

func TestPromotionDiscountForPercentage(t *testing.T) {
	promo := activePromo()

	if got := promo.DiscountFor(1000); got != 200 {
		t.Fatalf("expected 20%% of 1000 = 200, got %v", got)
	}
}

func TestPromotionDiscountForMaxCap(t *testing.T) {
	promo := activePromo()
	maxDiscount := 150.0
	promo.MaxDiscount = &maxDiscount

	if got := promo.DiscountFor(1000); got != 150 {
		t.Fatalf("expected discount capped at 150, got %v", got)
	}
}

func TestPromotionDiscountForBelowMinimum(t *testing.T) {
	promo := activePromo()
	promo.MinBookingAmount = 500

	if got := promo.DiscountFor(499); got != 0 {
		t.Fatalf("expected no discount below minimum, got %v", got)
	}
	if got := promo.DiscountFor(500); got != 100 {
		t.Fatalf("expected discount at minimum, got %v", got)
	}
}

func TestPromotionDiscountForFixedNeverExceedsAmount(t *testing.T) {
	promo := activePromo()
	promo.DiscountType = DiscountFixed
	promo.DiscountValue = 500

	if got := promo.DiscountFor(300); got != 300 {
		t.Fatalf("fixed discount should not exceed the amount, got %v", got)
	}
}
