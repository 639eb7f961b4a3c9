package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateNumericCode returns a decimal code of exactly the given number of
// digits, drawn uniformly from [10^(digits-1), 10^digits-1] using a
// cryptographically secure source. The leading digit is never zero.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("unsupported code length %d", digits)
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	high := new(big.Int).Mul(low, big.NewInt(10))
	span := new(big.Int).Sub(high, low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}

	return n.Add(n, low).String(), nil
}
