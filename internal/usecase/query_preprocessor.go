package usecase

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// QueryPreprocessor turns user input into a product search query.
// Pasted Amazon and Flipkart product URLs are reduced to the product name in their path.
type QueryPreprocessor struct {
	logger *zap.Logger
}

// productURLMarkers select inputs that are treated as product page URLs
var productURLMarkers = []string{"amazon.", "flipkart."}

// Path segments that never carry the product name on Amazon /dp/ URLs
var skippedSegments = map[string]bool{
	"gp":      true,
	"product": true,
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(logger *zap.Logger) *QueryPreprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryPreprocessor{logger: logger}
}

// PreprocessQuery returns the search query for input.
//
//	"https://www.amazon.in/Apple-iPhone-15/dp/B0CHX1W1XY" -> "Apple iPhone 15"
//	"flipkart.com/samsung-galaxy-m34/p/itm123"           -> "samsung galaxy m34"
//
// Anything that is not a recognised product URL is returned trimmed.
func (p *QueryPreprocessor) PreprocessQuery(input string) string {
	query := strings.TrimSpace(input)
	if query == "" || !isProductURL(query) {
		return query
	}

	name, ok := productNameFromURL(query)
	if !ok {
		return query
	}

	p.logger.Debug("extracted product name from url",
		zap.String("input", query),
		zap.String("query", name),
	)
	return name
}

func isProductURL(s string) bool {
	for _, marker := range productURLMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func productNameFromURL(raw string) (string, bool) {
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	path := u.EscapedPath()
	parts := strings.Split(path, "/")

	if strings.Contains(path, "/dp/") {
		for _, part := range parts {
			if part == "" || strings.Contains(part, "dp") || skippedSegments[part] {
				continue
			}
			return decodeSegment(part)
		}
	}

	if strings.Contains(path, "/p/") && len(parts) > 1 && parts[1] != "" {
		return decodeSegment(parts[1])
	}

	return "", false
}

// decodeSegment percent-decodes a path segment and turns slug dashes into spaces
func decodeSegment(segment string) (string, bool) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", false
	}
	return strings.ReplaceAll(decoded, "-", " "), true
}
