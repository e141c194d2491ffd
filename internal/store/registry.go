package store

import (
	"net/url"
	"strings"
)

// ID identifies a retailer in the registry
type ID int

const (
	Unknown ID = iota
	Amazon
	Flipkart
	Shopsy
	Meesho
)

// UnknownName is the label for fallback results whose store could not be inferred
const UnknownName = "Online Store"

// unknownColor is the neutral brand color used for stores outside the registry
const unknownColor = "#6B7280"

// Config describes one known retailer. Values are immutable after init.
type Config struct {
	ID       ID
	Name     string
	Logo     string
	Color    string
	Domain   string
	Keywords []string
}

// registry lists known stores in lookup order
var registry = []Config{
	{
		ID:       Amazon,
		Name:     "Amazon",
		Logo:     "https://img.logo.dev/amazon.in?token=pk_demo",
		Color:    "#FF9900",
		Domain:   "amazon.in",
		Keywords: []string{"amazon.in", "amazon.com", "amazon"},
	},
	{
		ID:       Flipkart,
		Name:     "Flipkart",
		Logo:     "https://img.logo.dev/flipkart.com?token=pk_demo",
		Color:    "#2874F0",
		Domain:   "flipkart.com",
		Keywords: []string{"flipkart.com", "flipkart"},
	},
	{
		ID:       Shopsy,
		Name:     "Shopsy",
		Logo:     "https://img.logo.dev/shopsy.in?token=pk_demo",
		Color:    "#E84D8A",
		Domain:   "shopsy.in",
		Keywords: []string{"shopsy.in", "shopsy"},
	},
	{
		ID:       Meesho,
		Name:     "Meesho",
		Logo:     "https://img.logo.dev/meesho.com?token=pk_demo",
		Color:    "#9C1A8C",
		Domain:   "meesho.com",
		Keywords: []string{"meesho.com", "meesho"},
	},
}

var unknownStore = Config{
	ID:    Unknown,
	Name:  UnknownName,
	Color: unknownColor,
}

// searchTemplates maps a store to its search page; the query is appended percent-encoded
var searchTemplates = map[ID]string{
	Amazon:   "https://www.amazon.in/s?k=",
	Flipkart: "https://www.flipkart.com/search?q=",
	Shopsy:   "https://www.shopsy.in/search?q=",
	Meesho:   "https://www.meesho.com/search?q=",
}

// All returns a copy of the registry in lookup order
func All() []Config {
	stores := make([]Config, len(registry))
	copy(stores, registry)
	return stores
}

// Lookup returns the config for id. Unknown and unregistered IDs get the neutral Unknown entry.
func Lookup(id ID) Config {
	for _, s := range registry {
		if s.ID == id {
			return s
		}
	}
	return unknownStore
}

// SearchURL builds the store's search page URL for query.
// Returns "" for Unknown since there is no page to send the user to.
func SearchURL(id ID, query string) string {
	tmpl, ok := searchTemplates[id]
	if !ok {
		return ""
	}
	return tmpl + encodeQuery(query)
}

// uriComponentUnescaper restores the characters encodeURIComponent leaves
// alone but url.QueryEscape escapes. Spaces become %20, not '+'.
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeQuery percent-encodes like encodeURIComponent
func encodeQuery(query string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(query))
}

// Matches reports whether any of texts contains one of the store keywords.
// Comparison is case-insensitive.
func (c Config) Matches(texts ...string) bool {
	for _, text := range texts {
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		for _, keyword := range c.Keywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

// Identify returns the first registered store whose keywords appear in any of texts.
func Identify(texts ...string) (Config, bool) {
	for _, s := range registry {
		if s.Matches(texts...) {
			return s, true
		}
	}
	return unknownStore, false
}

func (id ID) String() string {
	return Lookup(id).Name
}
