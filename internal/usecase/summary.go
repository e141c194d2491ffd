package usecase

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pricelens/backend/internal/domain"
)

// SortOption selects the display order of lookup results
type SortOption string

const (
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortRelevance SortOption = "relevance"
)

// ParseSortOption validates s; an empty value means SortPriceLow.
func ParseSortOption(s string) (SortOption, error) {
	switch opt := SortOption(s); opt {
	case "":
		return SortPriceLow, nil
	case SortPriceLow, SortPriceHigh, SortRelevance:
		return opt, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSortOption, s)
	}
}

// SortForDisplay returns the available results ordered by option.
// Relevance keeps pipeline order. The input slice is not modified.
func SortForDisplay(results []domain.PriceResult, option SortOption) []domain.PriceResult {
	sorted := make([]domain.PriceResult, 0, len(results))
	for _, r := range results {
		if r.Price > 0 {
			sorted = append(sorted, r)
		}
	}

	switch option {
	case SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price > sorted[j].Price })
	case SortRelevance:
	default:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })
	}

	return sorted
}

// Summarize computes the headline figures shown above a result list
func Summarize(result *domain.LookupResult) domain.LookupSummary {
	summary := domain.LookupSummary{Fallback: result.Fallback}

	for _, r := range result.Results {
		if r.Price <= 0 {
			continue
		}
		summary.AvailableCount++
		if summary.LowestPrice == 0 || r.Price < summary.LowestPrice {
			summary.LowestPrice = r.Price
			summary.BestStore = r.Store
		}
	}

	return summary
}

var priceLocale = language.MustParse("en-IN")

// FormatPrice renders a rupee amount with locale digit grouping ("₹1,499").
func FormatPrice(price int) string {
	return "₹" + message.NewPrinter(priceLocale).Sprintf("%d", price)
}
