package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const claimCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ClaimCodeLength is the length of pending-transfer claim codes.
const ClaimCodeLength = 6

// GenerateSecureRandomString generates a cryptographically secure random
// string of the specified byte length, then hex encodes it. For example,
// lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateClaimCode generates a short alphanumeric code used to claim a
// pending transfer. Drawn uniformly from [a-zA-Z0-9] with crypto/rand.
func GenerateClaimCode() (string, error) {
	code := make([]byte, ClaimCodeLength)
	max := big.NewInt(int64(len(claimCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate claim code: %w", err)
		}
		code[i] = claimCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
