package utils

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

var (
	// Kenyan mobile numbers: 07XXXXXXXX, 01XXXXXXXX, 2547XXXXXXXX or +2547XXXXXXXX
	phoneRegex = regexp.MustCompile(`^(\+?254|0)(1|7)\d{8}$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// IsValidPhone reports whether value looks like a Kenyan mobile number.
func IsValidPhone(value string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(value))
}

// IsValidEmail reports whether value is a plausible email address.
func IsValidEmail(value string) bool {
	return emailRegex.MatchString(strings.TrimSpace(value))
}

// NormalizePhone rewrites a Kenyan phone number to the 254XXXXXXXXX form the
// payment and SMS gateways expect.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	switch {
	case strings.HasPrefix(phone, "+254"):
		return phone[1:]
	case strings.HasPrefix(phone, "254"):
		return phone
	case strings.HasPrefix(phone, "0"):
		return "254" + phone[1:]
	default:
		return "254" + phone
	}
}

// FormatKES renders an amount as Kenyan shillings with a thousands separator
// and no fractional digits, e.g. FormatKES(1500) == "KES 1,500".
func FormatKES(amount float64) string {
	whole := int64(math.Round(amount))

	sign := ""
	if whole < 0 {
		sign = "-"
		whole = -whole
	}

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	return fmt.Sprintf("KES %s%s", sign, b.String())
}

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBookingReference creates a 10-character booking reference shown to
// passengers and replayed at the terminal.
func GenerateBookingReference() string {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteByte(referenceAlphabet[rand.Intn(len(referenceAlphabet))])
	}
	return b.String()
}

// GenerateTransactionID creates a payment transaction identifier.
// Format: TXN-YYYYMMDDHHMMSS-RANDOM
func GenerateTransactionID() string {
	now := time.Now()
	return fmt.Sprintf("TXN-%s-%04d", now.Format("20060102150405"), rand.Intn(10000))
}

// GenerateVerificationCode creates a numeric code of the given length.
func GenerateVerificationCode(length int) string {
	if length <= 0 {
		length = 6
	}

	code := ""
	for i := 0; i < length; i++ {
		code += strconv.Itoa(rand.Intn(10))
	}
	return code
}
