package validator

import "golang.org/x/text/currency"

// NonNegativeAmount fails for negative amounts and NaN.
func NonNegativeAmount[T Numeric](field string, value T) Rule {
	return Rule{
		Check: func() bool {
			return value >= 0
		},
		Error: ValidationError{
			Field:          field,
			Message:        "amount cannot be negative",
			TranslationKey: "validation.non_negative_amount",
		},
	}
}

// ValidCurrencyCode accepts any code recognized by golang.org/x/text/currency.
func ValidCurrencyCode(field, value string) Rule {
	return Rule{
		Check: func() bool {
			_, err := currency.ParseISO(value)
			return err == nil
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid ISO 4217 currency code",
			TranslationKey: "validation.currency_code",
		},
	}
}
