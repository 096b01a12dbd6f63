package ordernum

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const (
	Prefix = "BJ"

	timestampDigits = 6
	suffixLength    = 5
	suffixCharset   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generate builds a human-trackable order number: prefix, the low six
// digits of the current unix-milli timestamp and a random alphanumeric
// suffix. Collisions are possible, so callers must retry on a uniqueness
// violation.
func Generate() (string, error) {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	timestamp = timestamp[len(timestamp)-timestampDigits:]

	suffix := make([]byte, suffixLength)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range suffix {
		suffix[i] = suffixCharset[int(b)%len(suffixCharset)]
	}

	return Prefix + timestamp + string(suffix), nil
}
