package domain

// PlaceholderImage is shown for matched products that carry no photo
const PlaceholderImage = "/diverse-products-still-life.png"

// PriceResult is one row of a lookup: a store slot on the primary path or a
// generic top match on the fallback path.
type PriceResult struct {
	Store         string `json:"store"`
	StoreLogo     string `json:"storeLogo"`
	ProductImage  string `json:"productImage"`
	ProductTitle  string `json:"productTitle"`
	Price         int    `json:"price"` // 0 means not found
	OriginalPrice *int   `json:"originalPrice,omitempty"`
	Discount      *int   `json:"discount,omitempty"` // percent
	IsPriceDrop   bool   `json:"isPriceDrop"`
	IsAvailable   bool   `json:"isAvailable"`
	ProductURL    string `json:"productUrl"`
	StoreColor    string `json:"storeColor"`
}

// LookupResult is the output of one price lookup
type LookupResult struct {
	Query    string        `json:"query"`
	Results  []PriceResult `json:"results"`
	Fallback bool          `json:"fallback"` // true when no known store matched and generic top results were used
}

// LookupSummary aggregates a result list for display
type LookupSummary struct {
	LowestPrice    int    `json:"lowestPrice"`
	AvailableCount int    `json:"availableCount"`
	BestStore      string `json:"bestStore,omitempty"`
	Fallback       bool   `json:"fallback"`
}
