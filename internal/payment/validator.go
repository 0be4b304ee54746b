// Package payment validates the checkout payment form and simulates the
// charge. No real gateway is involved; card data is checked in memory and
// only the cardholder name and last four digits ever leave this package.
package payment

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Form is the raw payment form submitted at checkout.
type Form struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
	BillingAddress string `json:"billingAddress"`
	City           string `json:"city"`
	Postcode       string `json:"postcode"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

var (
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	nonDigits     = regexp.MustCompile(`\D`)
)

// ValidationError carries per-field messages. The whole form is validated
// in one pass so the client can surface every problem at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("payment form validation failed: %s", strings.Join(names, ", "))
}

// Validate checks every field and returns a ValidationError naming each
// failing one, or nil when the form is acceptable.
func Validate(form Form) error {
	fields := make(map[string]string)

	if len(nonDigits.ReplaceAllString(form.CardNumber, "")) < 16 {
		fields["cardNumber"] = "Please enter a valid card number"
	}

	if !expiryPattern.MatchString(form.ExpiryDate) {
		fields["expiryDate"] = "Please enter expiry date (MM/YY)"
	}

	if len(form.CVV) < 3 {
		fields["cvv"] = "Please enter a valid CVV"
	}

	if strings.TrimSpace(form.CardholderName) == "" {
		fields["cardholderName"] = "Please enter cardholder name"
	}

	if strings.TrimSpace(form.BillingAddress) == "" {
		fields["billingAddress"] = "Please enter billing address"
	}

	if strings.TrimSpace(form.City) == "" {
		fields["city"] = "Please enter city"
	}

	if strings.TrimSpace(form.Postcode) == "" {
		fields["postcode"] = "Please enter postcode"
	}

	if strings.TrimSpace(form.Email) == "" || !emailPattern.MatchString(form.Email) {
		fields["email"] = "Please enter a valid email"
	}

	if strings.TrimSpace(form.Phone) == "" {
		fields["phone"] = "Please enter phone number"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

// Last4 returns the last four digits of the card number for the persisted
// payment summary.
func Last4(cardNumber string) string {
	digits := nonDigits.ReplaceAllString(cardNumber, "")
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
