package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationHelper provides shared validation functionality. It registers a
// custom "cpf" tag implementing the CPF check-digit algorithm.
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	v := validator.New()
	v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return ValidCPF(fl.Field().String())
	})
	return &ValidationHelper{validator: v}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// IsValidationError reports whether err came from struct validation.
func IsValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

// ValidationMessages flattens validator errors into per-field messages the
// console can print.
func ValidationMessages(err error) []string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed validation on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}
	return msgs
}

// ValidCPF reports whether cpf is a well-formed Brazilian CPF. Accepts the
// punctuated form (000.000.000-00) and the bare 11 digits. Rejects the
// repeated-digit numbers that pass the checksum trivially.
func ValidCPF(cpf string) bool {
	cleaned := strings.NewReplacer(".", "", "-", "").Replace(cpf)
	if len(cleaned) != 11 {
		return false
	}

	digits := make([]int, 11)
	allSame := true
	for i, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
		if digits[i] != digits[0] {
			allSame = false
		}
	}
	if allSame {
		return false
	}

	return cpfCheckDigit(digits, 9) == digits[9] && cpfCheckDigit(digits, 10) == digits[10]
}

func cpfCheckDigit(digits []int, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += digits[i] * (length + 1 - i)
	}
	rest := sum * 10 % 11
	if rest == 10 {
		rest = 0
	}
	return rest
}

// ParseAmount parses a monetary amount typed at the prompt. Accepts the
// comma decimal separator. Rejects non-numbers, non-positive values and
// sub-cent precision.
func ParseAmount(input string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !validAmount(amount) {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}
