// internal/domain/pricing/dto.go
package pricing

import "github.com/shopspring/decimal"

// DisplayPrice is the final resolved price of a plan in the requested
// display currency.
type DisplayPrice struct {
	PackageCode  string          `json:"package_code"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	Formatted    string          `json:"formatted"`
	Overridden   bool            `json:"overridden"`
	DiscountPct  decimal.Decimal `json:"discount_pct"`
}

// SetPriceRequest is the admin payload for a single override upsert.
// A price of zero (or below) clears the override.
type SetPriceRequest struct {
	PriceUSD decimal.Decimal `json:"price_usd"`
}

// UpdateRulesRequest is the admin payload replacing the discount rule set.
type UpdateRulesRequest struct {
	Plans map[string]decimal.Decimal `json:"plans"`
	Tiers []DiscountTier             `json:"tiers"`
}

// ImportResult reports a successful bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"` // zero-value entries, treated as "no override"
}
