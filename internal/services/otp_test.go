package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.GreaterOrEqual(t, code, "100000")
		require.LessOrEqual(t, code, "999999")
	}
}

func TestValidateOTP_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	code := "654321"
	expiry := OTPExpiryFrom(issued, DefaultOTPTTL)

	assert.Equal(t, OTPValid, ValidateOTP(code, &code, &expiry, issued.Add(14*time.Minute+59*time.Second)))
	assert.Equal(t, OTPExpired, ValidateOTP(code, &code, &expiry, issued.Add(15*time.Minute)))
	assert.Equal(t, OTPExpired, ValidateOTP(code, &code, &expiry, issued.Add(15*time.Minute+1*time.Second)))
}

func TestValidateOTP_ExpiryCheckedBeforeEquality(t *testing.T) {
	code := "111111"
	expiry := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// A numerically matching but expired code must report expired, not valid.
	got := ValidateOTP(code, &code, &expiry, expiry.Add(time.Hour))
	assert.Equal(t, OTPExpired, got)
}

func TestValidateOTP_Mismatch(t *testing.T) {
	code := "222222"
	expiry := time.Now().Add(10 * time.Minute)

	assert.Equal(t, OTPMismatch, ValidateOTP("333333", &code, &expiry, time.Now()))
}

func TestValidateOTP_NoActiveCode(t *testing.T) {
	expiry := time.Now().Add(10 * time.Minute)

	assert.Equal(t, OTPNoActiveCode, ValidateOTP("123456", nil, nil, time.Now()))
	assert.Equal(t, OTPNoActiveCode, ValidateOTP("123456", nil, &expiry, time.Now()))
}
