package catalog

import (
	"math"
	"strconv"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProductSubmission is the raw, user-entered form for contributing a product
// price. Payload normalizes it into what the catalog accepts.
type ProductSubmission struct {
	Name      string `json:"name"`
	StoreID   string `json:"store_id"`
	StoreName string `json:"store_name"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	SizeHint  string `json:"size_hint"`
	PackQty   string `json:"pack_qty"`
	ImageURL  string `json:"image_url"`
	URL       string `json:"url"`
}

func (s ProductSubmission) Payload() (AddProductPayload, error) {
	name := strings.TrimSpace(s.Name)
	if len([]rune(name)) < 2 {
		return AddProductPayload{}, &ValidationError{"name", "Product name must be at least 2 characters."}
	}

	storeID := strings.TrimSpace(s.StoreID)
	if storeID == "" {
		return AddProductPayload{}, &ValidationError{"store_id", "Store ID is required."}
	}

	var (
		price float64
		err   error
	)
	if raw := strings.TrimSpace(s.Price); raw != "" {
		price, err = strconv.ParseFloat(raw, 64)
	}
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
		return AddProductPayload{}, &ValidationError{"price", "Price must be a valid number."}
	}
	if price <= 0 {
		return AddProductPayload{}, &ValidationError{"price", "Price must be greater than 0."}
	}

	currency := strings.ToUpper(strings.TrimSpace(s.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return AddProductPayload{}, &ValidationError{"currency", "Currency must be a 3-letter code (e.g. JMD)."}
	}

	storeName := strings.TrimSpace(s.StoreName)
	if storeName == "" {
		storeName = storeID
	}

	return AddProductPayload{
		Name:      name,
		StoreID:   strings.ToLower(storeID),
		StoreName: storeName,
		Price:     price,
		Currency:  currency,
		Brand:     strings.TrimSpace(s.Brand),
		Category:  strings.TrimSpace(s.Category),
		SizeHint:  combineSizeHint(s.PackQty, s.SizeHint),
		ImageURL:  strings.TrimSpace(s.ImageURL),
		URL:       strings.TrimSpace(s.URL),
	}, nil
}

// combineSizeHint folds pack quantity and unit size into one hint, e.g.
// "6" + "330ml" becomes "6x330ml".
func combineSizeHint(pack, size string) string {
	pack, size = strings.TrimSpace(pack), strings.TrimSpace(size)
	switch {
	case pack != "" && size != "":
		return pack + "x" + size
	case pack != "":
		return pack + " pack"
	default:
		return size
	}
}
