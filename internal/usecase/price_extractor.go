package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pricelens/backend/internal/domain"
	"github.com/tidwall/gjson"
)

// leadingFloatRegex matches the numeric prefix a lenient float parser would accept ("1499.00onwards" -> "1499.00")
var leadingFloatRegex = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// maxPrice keeps rounded values inside int range
const maxPrice = float64(math.MaxInt64 / 2)

type priceField func(domain.RawProduct) gjson.Result

// priceFields are scanned in order; the first usable value wins
var priceFields = []priceField{
	domain.RawProduct.PriceExtractedValue,
	domain.RawProduct.PriceValue,
	domain.RawProduct.ProductPrice,
	domain.RawProduct.OfferPrice,
	domain.RawProduct.PriceRangeLow,
	domain.RawProduct.AttributePrice,
}

// originalPriceFields must also beat the extracted price to be accepted
var originalPriceFields = []priceField{
	domain.RawProduct.OfferOriginalPrice,
	domain.RawProduct.PriceRangeHigh,
	domain.RawProduct.AttributeOriginalPrice,
}

// ExtractPrice returns the selling price and the pre-discount price of a raw
// record. Zero means the value could not be determined. It never fails.
func ExtractPrice(product domain.RawProduct) (price int, originalPrice int) {
	for _, field := range priceFields {
		if v, ok := parsePrice(field(product)); ok {
			price = v
			break
		}
	}

	for _, field := range originalPriceFields {
		if v, ok := parsePrice(field(product)); ok && v > price {
			originalPrice = v
			break
		}
	}

	return price, originalPrice
}

// CalculateDiscount returns the whole-number percentage saved, or 0 when
// there is no valid original price above a positive price.
func CalculateDiscount(price, originalPrice int) int {
	if price <= 0 || originalPrice <= price {
		return 0
	}
	return int(math.Round(float64(originalPrice-price) / float64(originalPrice) * 100))
}

// parsePrice turns one candidate into a positive whole price.
// Numbers are taken as-is; strings lose currency symbols, commas and spaces first.
func parsePrice(field gjson.Result) (int, bool) {
	var value float64

	switch field.Type {
	case gjson.Number:
		value = field.Num
	case gjson.String:
		v, ok := parsePriceString(field.Str)
		if !ok {
			return 0, false
		}
		value = v
	default:
		return 0, false
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 || value >= maxPrice {
		return 0, false
	}

	rounded := int(math.Round(value))
	if rounded <= 0 {
		return 0, false
	}
	return rounded, true
}

func parsePriceString(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)

	numeric := leadingFloatRegex.FindString(cleaned)
	if numeric == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
