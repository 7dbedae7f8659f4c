package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Pi wallet addresses are Stellar-style public keys.
var walletRegex = regexp.MustCompile(`^G[A-Z2-7]{55}$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator struct {
	Errors []ValidationError
}

func New() *Validator {
	return &Validator{
		Errors: make([]ValidationError, 0),
	}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) Required(value, field string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) PositiveAmount(amount decimal.Decimal, field string) {
	v.Check(amount.IsPositive(), field, "must be greater than zero")
}

// WalletAddress accepts an empty value; callers use Required when needed.
func (v *Validator) WalletAddress(address, field string) {
	if address == "" {
		return
	}
	v.Check(walletRegex.MatchString(address), field, "is not a valid Pi wallet address")
}

// Error joins all failures into one message.
func (v *Validator) Error() string {
	msgs := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
