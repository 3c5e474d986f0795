package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrTokenMissing reports an absent or empty credential file. It means the
// approval channel is unavailable, not that a human denied anything.
var ErrTokenMissing = errors.New("auth token not found")

// ReadToken loads the plaintext approval token from path, trimming
// surrounding whitespace. The file is owned by the companion service;
// absence is a recoverable condition.
func ReadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrTokenMissing
		}
		return "", fmt.Errorf("read auth token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrTokenMissing
	}
	return token, nil
}
