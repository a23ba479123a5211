package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// OTPCodeLength is the length of a generated one-time code.
const OTPCodeLength = 6

// GenerateOTPCode returns a random 6-character uppercase hex code.
func GenerateOTPCode() (string, error) {
	buf := make([]byte, OTPCodeLength/2)
	if _, errRead := rand.Read(buf); errRead != nil {
		return "", fmt.Errorf("security: generate otp: %w", errRead)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
