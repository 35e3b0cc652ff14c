// Package promo holds the static promo-code table consulted by the cart.
package promo

import "strings"

// codes maps an uppercased promo code to its discount fraction.
var codes = map[string]float64{
	"SAVE10":    0.10,
	"SAVE20":    0.20,
	"WELCOME":   0.15,
	"DISCOUNT5": 0.05,
}

// Normalize uppercases a code for lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount returns the discount fraction for a code, case-insensitively.
func Discount(code string) (float64, bool) {
	d, ok := codes[Normalize(code)]
	return d, ok
}

// Validate reports whether a code is recognized. Callers run this before
// dispatching ApplyPromoCode so invalid codes never reach the reducer.
func Validate(code string) bool {
	_, ok := Discount(code)
	return ok
}

// Codes returns all recognized codes. Order is unspecified.
func Codes() []string {
	out := make([]string, 0, len(codes))
	for c := range codes {
		out = append(out, c)
	}
	return out
}
