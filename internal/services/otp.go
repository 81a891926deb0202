package services

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
	"time"
)

// OTPStatus is the outcome of checking a submitted code against the stored one.
type OTPStatus int

const (
	OTPValid OTPStatus = iota
	OTPExpired
	OTPMismatch
	OTPNoActiveCode
)

// DefaultOTPTTL is how long an issued code stays valid.
const DefaultOTPTTL = 15 * time.Minute

// GenerateOTP draws a 6-digit code uniformly from [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// OTPExpiryFrom computes the expiry for a code issued at now.
func OTPExpiryFrom(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl)
}

// ValidateOTP is read-only: the caller decides whether to mark the account
// verified. Expiry is checked before equality, so an expired code reports
// OTPExpired even when it matches. A nil stored code means the account is
// already verified or never requested one.
func ValidateOTP(submitted string, stored *string, expiresAt *time.Time, now time.Time) OTPStatus {
	if stored == nil || expiresAt == nil {
		return OTPNoActiveCode
	}
	if !now.Before(*expiresAt) {
		return OTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(*stored)) != 1 {
		return OTPMismatch
	}
	return OTPValid
}
