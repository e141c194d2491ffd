package domain

import "context"

// ProductSearcher defines the interface for the upstream product search API
type ProductSearcher interface {
	// SearchProducts issues exactly one request for query and returns the raw
	// records in upstream order. Implementations must not retry.
	SearchProducts(ctx context.Context, query string) ([]RawProduct, error)
}

// PriceLookup defines the interface consumed by the delivery layers
type PriceLookup interface {
	LookupPrices(ctx context.Context, query string) (*LookupResult, error)
}
