package domain

import "github.com/shopspring/decimal"

func init() {
	// The commerce service speaks plain JSON numbers for prices and totals.
	decimal.MarshalJSONWithoutQuotes = true
}
