package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength          = 24
	maxUIDLength           = 64
	maxSubmittedPatternLen = 1024
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("name", func(fl validator.FieldLevel) bool {
			_, err := validateName(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("uid", func(fl validator.FieldLevel) bool {
			_, err := validateUID(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("pattern", func(fl validator.FieldLevel) bool {
			return validatePattern(fl.Field().String()) == nil
		})
		_ = engine.RegisterValidation("code", func(fl validator.FieldLevel) bool {
			_, err := validateJoinCode(fl.Field().String())
			return err == nil
		})
	})
}

func validateName(name string) (string, error) {
	return validateText("name", name, maxNameLength)
}

func validateUID(uid string) (string, error) {
	trimmed := strings.TrimSpace(uid)
	if trimmed == "" {
		return "", errors.New("uid is required")
	}
	if len(trimmed) > maxUIDLength {
		return "", fmt.Errorf("uid must be %d characters or fewer", maxUIDLength)
	}
	for _, r := range trimmed {
		if !isTokenRune(r) {
			return "", errors.New("uid contains unsupported characters")
		}
	}
	return trimmed, nil
}

// validatePattern only bounds the request size; syntax errors are scored.
func validatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return errors.New("pattern is required")
	}
	if utf8.RuneCountInString(pattern) > maxSubmittedPatternLen {
		return errors.New("pattern is too long")
	}
	return nil
}

func validateJoinCode(code string) (string, error) {
	normalized := normalizeJoinCode(code)
	if len(normalized) != joinCodeLength {
		return "", fmt.Errorf("join code must be %d characters", joinCodeLength)
	}
	for _, r := range normalized {
		if !strings.ContainsRune(joinCodeAlphabet, r) {
			return "", errors.New("join code contains unsupported characters")
		}
	}
	return normalized, nil
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	if !isSafeText(trimmed) {
		return "", fmt.Errorf("%s contains unsupported characters", label)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if unicode.IsControl(r) || r == '<' || r == '>' {
			return false
		}
	}
	return true
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
