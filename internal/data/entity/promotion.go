package entity

import (
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Promotion struct {
	Base
	Code             string       `db:"code"`
	Title            string       `db:"title"`
	Description      *string      `db:"description"`
	DiscountType     DiscountType `db:"discount_type"`
	DiscountValue    float64      `db:"discount_value"`
	MinBookingAmount float64      `db:"min_booking_amount"`
	MaxDiscount      *float64     `db:"max_discount"`
	UsageLimit       *int         `db:"usage_limit"`
	TimesUsed        int          `db:"times_used"`
	ValidFrom        time.Time    `db:"valid_from"`
	ValidUntil       time.Time    `db:"valid_until"`
	IsActive         bool         `db:"is_active"`
}

// Valid reports whether the promotion can currently be redeemed.
func (p *Promotion) Valid(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.ValidFrom) || now.After(p.ValidUntil) {
		return false
	}
	if p.UsageLimit != nil && p.TimesUsed >= *p.UsageLimit {
		return false
	}
	return true
}

// DiscountFor computes the discount the promotion grants on amount. Percentage
// discounts are capped at MaxDiscount when set; the discount never exceeds the
// amount itself. Returns 0 when the amount is below the promotion minimum.
func (p *Promotion) DiscountFor(amount float64) float64 {
	if amount < p.MinBookingAmount {
		return 0
	}

	var discount float64
	if p.DiscountType == DiscountPercentage {
		discount = amount * p.DiscountValue / 100
		if p.MaxDiscount != nil && discount > *p.MaxDiscount {
			discount = *p.MaxDiscount
		}
	} else {
		discount = p.DiscountValue
	}

	if discount > amount {
		discount = amount
	}
	return discount
}
