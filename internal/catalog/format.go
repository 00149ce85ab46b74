package catalog

import "fmt"

const DefaultCurrency = "JMD"

// FormatPrice renders an amount for display. Local currency amounts carry a
// bare dollar sign; USD is marked explicitly.
func FormatPrice(amount *float64, currency string) string {
	if amount == nil {
		return "Price unavailable"
	}
	if currency == "USD" {
		return fmt.Sprintf("US$%.2f", *amount)
	}
	return fmt.Sprintf("$%.2f", *amount)
}

func FormatStoreCount(n int) string {
	if n == 1 {
		return "1 store"
	}
	return fmt.Sprintf("%d stores", n)
}
