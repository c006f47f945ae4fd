// README: Common price value object used across the pipeline.
package types

import "fmt"

// Price is an amount tagged with its ISO-4217 currency code.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// NewPrice builds a Price, defaulting the currency to USD when untagged.
func NewPrice(amount float64, currency string) *Price {
	if currency == "" {
		currency = "USD"
	}
	return &Price{Amount: amount, Currency: currency}
}

// String renders the price for prompts and plain-text output, e.g. "USD 412".
func (p Price) String() string {
	if p.Amount == float64(int64(p.Amount)) {
		return fmt.Sprintf("%s %.0f", p.Currency, p.Amount)
	}
	return fmt.Sprintf("%s %.2f", p.Currency, p.Amount)
}
