package usecase

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/store"
)

const (
	// fallbackLimit caps how many raw records the fallback path considers
	fallbackLimit = 4

	// priceDropRatio flags results priced below this share of the mean
	priceDropRatio = 0.9

	// fallbackURL is used when a fallback record carries no link at all
	fallbackURL = "#"
)

// LookupService runs one price lookup: fetch, per-store matching, fallback
// ranking, price-drop annotation and ordering. It holds no mutable state and
// is safe for concurrent use.
type LookupService struct {
	searcher domain.ProductSearcher
	logger   *zap.Logger
}

// NewLookupService creates a lookup service. A nil logger disables logging.
func NewLookupService(searcher domain.ProductSearcher, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{
		searcher: searcher,
		logger:   logger,
	}
}

// LookupPrices returns one result per registered store, or up to four generic
// results when no store matched. Any fetch failure aborts the whole lookup.
func (s *LookupService) LookupPrices(ctx context.Context, query string) (*domain.LookupResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}

	products, err := s.searcher.SearchProducts(ctx, query)
	if err != nil {
		s.logger.Debug("product search failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("lookup %q: %w", query, err)
	}

	results := s.matchStores(query, products)

	if len(products) > 0 && noneAvailable(results) {
		if fallback := buildFallback(query, products); len(fallback) > 0 {
			s.logger.Info("no registered store matched, using top results",
				zap.String("query", query),
				zap.Int("products", len(products)),
				zap.Int("results", len(fallback)),
			)
			return &domain.LookupResult{Query: query, Results: fallback, Fallback: true}, nil
		}
	}

	markPriceDrops(results)
	sortResults(results)

	s.logger.Info("price lookup completed",
		zap.String("query", query),
		zap.Int("products", len(products)),
		zap.Int("available", countAvailable(results)),
	)

	return &domain.LookupResult{Query: query, Results: results}, nil
}

// matchStores builds one slot per registered store in registry order
func (s *LookupService) matchStores(query string, products []domain.RawProduct) []domain.PriceResult {
	stores := store.All()
	results := make([]domain.PriceResult, 0, len(stores))

	for _, cfg := range stores {
		product, ok := findProduct(cfg, products)
		if !ok {
			s.logger.Debug("no product for store", zap.String("store", cfg.Name))
			results = append(results, unavailableResult(cfg, query))
			continue
		}

		result := matchedResult(cfg, query, product)
		s.logger.Debug("matched store",
			zap.String("store", cfg.Name),
			zap.Int("price", result.Price),
		)
		results = append(results, result)
	}

	return results
}

// findProduct returns the first record whose link or title mentions the store
func findProduct(cfg store.Config, products []domain.RawProduct) (domain.RawProduct, bool) {
	for _, p := range products {
		if cfg.Matches(p.Link(), p.TitleText()) {
			return p, true
		}
	}
	return domain.RawProduct{}, false
}

func matchedResult(cfg store.Config, query string, product domain.RawProduct) domain.PriceResult {
	price, originalPrice := ExtractPrice(product)

	image := product.Image()
	if image == "" {
		image = domain.PlaceholderImage
	}

	productURL := product.Link()
	if productURL == "" {
		productURL = store.SearchURL(cfg.ID, query)
	}

	result := domain.PriceResult{
		Store:        cfg.Name,
		StoreLogo:    cfg.Logo,
		ProductImage: image,
		ProductTitle: titleOr(product, query),
		Price:        price,
		IsAvailable:  price > 0,
		ProductURL:   productURL,
		StoreColor:   cfg.Color,
	}
	setOriginalPrice(&result, originalPrice)

	return result
}

func unavailableResult(cfg store.Config, query string) domain.PriceResult {
	return domain.PriceResult{
		Store:        cfg.Name,
		StoreLogo:    cfg.Logo,
		ProductTitle: query,
		ProductURL:   store.SearchURL(cfg.ID, query),
		StoreColor:   cfg.Color,
	}
}

// buildFallback maps the first few raw records with a usable price to generic
// results, sorted by price. Store identity comes from product_link only.
func buildFallback(query string, products []domain.RawProduct) []domain.PriceResult {
	if len(products) > fallbackLimit {
		products = products[:fallbackLimit]
	}

	results := make([]domain.PriceResult, 0, len(products))
	for _, product := range products {
		price, originalPrice := ExtractPrice(product)
		if price <= 0 {
			continue
		}

		link := product.ProductLinkText()
		cfg, ok := store.Identify(link)
		if !ok {
			if name, inferred := storeNameFromLink(link); inferred {
				cfg.Name = name
			}
		}

		productURL := product.Link()
		if productURL == "" {
			productURL = fallbackURL
		}

		image := product.Image()
		if image == "" {
			image = domain.PlaceholderImage
		}

		result := domain.PriceResult{
			Store:        cfg.Name,
			StoreLogo:    cfg.Logo,
			ProductImage: image,
			ProductTitle: titleOr(product, query),
			Price:        price,
			IsAvailable:  true,
			ProductURL:   productURL,
			StoreColor:   cfg.Color,
		}
		setOriginalPrice(&result, originalPrice)
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price < results[j].Price
	})

	return results
}

// storeNameFromLink derives a display name from an absolute URL's host:
// "https://www.croma.com/p/1" -> "Croma".
func storeNameFromLink(link string) (string, bool) {
	if link == "" {
		return "", false
	}

	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return "", false
	}

	first, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(first)) + label[size:], true
}

// markPriceDrops flags available results priced below 90% of the mean of all
// positive prices. A lone available result is compared against itself and is
// never flagged.
func markPriceDrops(results []domain.PriceResult) {
	// summed as float64: prices may approach maxPrice
	var sum float64
	var count int
	for _, r := range results {
		if r.Price > 0 {
			sum += float64(r.Price)
			count++
		}
	}
	if count == 0 {
		return
	}

	threshold := priceDropRatio * sum / float64(count)
	for i := range results {
		if results[i].IsAvailable && float64(results[i].Price) < threshold {
			results[i].IsPriceDrop = true
		}
	}
}

// sortResults orders available results by ascending price, unavailable last.
// Ties keep registry order.
func sortResults(results []domain.PriceResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.IsAvailable != b.IsAvailable {
			return a.IsAvailable
		}
		if !a.IsAvailable {
			return false
		}
		return a.Price < b.Price
	})
}

func setOriginalPrice(result *domain.PriceResult, originalPrice int) {
	if originalPrice <= 0 {
		return
	}
	op := originalPrice
	result.OriginalPrice = &op

	if result.Price > 0 && originalPrice > result.Price {
		discount := CalculateDiscount(result.Price, originalPrice)
		result.Discount = &discount
	}
}

func titleOr(product domain.RawProduct, query string) string {
	if title := product.TitleText(); title != "" {
		return title
	}
	return query
}

func noneAvailable(results []domain.PriceResult) bool {
	return countAvailable(results) == 0
}

func countAvailable(results []domain.PriceResult) int {
	n := 0
	for _, r := range results {
		if r.IsAvailable {
			n++
		}
	}
	return n
}
