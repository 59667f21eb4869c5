package mocks

import (
	"errors"
	"strings"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier on a failed comparison.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
//
// Without CompareFn it accepts exactly the hashes MemoryUserStore produces:
// HashPrefix followed by the plaintext. ShouldSucceed accepts everything.
type MockPasswordVerifier struct {
	ShouldSucceed bool
	CompareFn     func(hashedPassword, password string) error

	// Hashes records every hash passed to Compare, in order.
	Hashes []string
}

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.Hashes = append(m.Hashes, hashedPassword)

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	if strings.HasPrefix(hashedPassword, HashPrefix) && strings.TrimPrefix(hashedPassword, HashPrefix) == password {
		return nil
	}
	return ErrPasswordMismatch
}

// CallCount returns the number of Compare calls.
func (m *MockPasswordVerifier) CallCount() int {
	return len(m.Hashes)
}
