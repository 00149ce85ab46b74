package catalog

type LocationPrice struct {
	LocationID string  `json:"location_id"`
	StoreName  *string `json:"store_name"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	LastSeenAt string  `json:"last_seen_at"`
}

type Size struct {
	Value *float64 `json:"value"`
	Unit  *string  `json:"unit"`
}

type Product struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	NormalizedName string          `json:"normalized_name"`
	Brand          *string         `json:"brand"`
	Category       *string         `json:"category"`
	Size           Size            `json:"size"`
	Tags           []string        `json:"tags"`
	EstimatedPrice *float64        `json:"estimated_price"`
	LocationPrices []LocationPrice `json:"location_prices"`
	ImageURL       *string         `json:"image_url"`
	StoreID        string          `json:"store_id"`
	StoreName      string          `json:"store_name"`
	URL            string          `json:"url"`
}

type Store struct {
	StoreID      string `json:"store_id"`
	StoreName    string `json:"store_name"`
	ProductCount int    `json:"product_count"`
}

// Filters narrow a product search. Zero values are omitted from the query.
type Filters struct {
	Category string
	Tag      string
	StoreID  string
	Limit    int
}

type AddProductPayload struct {
	Name      string  `json:"name"`
	StoreID   string  `json:"store_id"`
	StoreName string  `json:"store_name,omitempty"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency,omitempty"`
	Brand     string  `json:"brand,omitempty"`
	Category  string  `json:"category,omitempty"`
	SizeHint  string  `json:"size_hint,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
	URL       string  `json:"url,omitempty"`
}

type AddProductResponse struct {
	Message   string `json:"message"`
	ProductID string `json:"product_id"`
	StoreID   string `json:"store_id"`
}
