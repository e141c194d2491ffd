package domain

import "github.com/tidwall/gjson"

// RawProduct is one record from the product search API. The upstream shape is
// not guaranteed, so every field read goes through a named accessor that
// returns a gjson.Result; a missing field reports Exists() == false.
type RawProduct struct {
	raw gjson.Result
}

// NewRawProduct wraps a single JSON object.
func NewRawProduct(json string) RawProduct {
	return RawProduct{raw: gjson.Parse(json)}
}

// ParseProducts extracts data.products from a search response body.
// A missing or non-array products field yields an empty slice.
func ParseProducts(body []byte) []RawProduct {
	products := gjson.GetBytes(body, "data.products")
	if !products.IsArray() {
		return []RawProduct{}
	}

	items := products.Array()
	result := make([]RawProduct, 0, len(items))
	for _, item := range items {
		result = append(result, RawProduct{raw: item})
	}
	return result
}

// Raw returns the underlying JSON text
func (p RawProduct) Raw() string {
	return p.raw.Raw
}

func (p RawProduct) ProductLink() gjson.Result  { return p.raw.Get("product_link") }
func (p RawProduct) OfferPageURL() gjson.Result { return p.raw.Get("offer.offer_page_url") }
func (p RawProduct) Title() gjson.Result        { return p.raw.Get("product_title") }
func (p RawProduct) FirstPhoto() gjson.Result   { return p.raw.Get("product_photos.0") }
func (p RawProduct) Photo() gjson.Result        { return p.raw.Get("product_photo") }

// Price candidates
func (p RawProduct) PriceExtractedValue() gjson.Result { return p.raw.Get("price.extracted_value") }
func (p RawProduct) PriceValue() gjson.Result          { return p.raw.Get("price.value") }
func (p RawProduct) ProductPrice() gjson.Result        { return p.raw.Get("product_price") }
func (p RawProduct) OfferPrice() gjson.Result          { return p.raw.Get("offer.price") }
func (p RawProduct) PriceRangeLow() gjson.Result       { return p.raw.Get("typical_price_range.0") }
func (p RawProduct) AttributePrice() gjson.Result      { return p.raw.Get("product_attributes.price") }

// Original price candidates
func (p RawProduct) OfferOriginalPrice() gjson.Result     { return p.raw.Get("offer.original_price") }
func (p RawProduct) PriceRangeHigh() gjson.Result         { return p.raw.Get("typical_price_range.1") }
func (p RawProduct) AttributeOriginalPrice() gjson.Result { return p.raw.Get("product_attributes.original_price") }

// Link returns product_link, falling back to the offer page URL.
func (p RawProduct) Link() string {
	if link := stringValue(p.ProductLink()); link != "" {
		return link
	}
	return stringValue(p.OfferPageURL())
}

// ProductLinkText returns product_link only, without the offer page fallback.
func (p RawProduct) ProductLinkText() string {
	return stringValue(p.ProductLink())
}

// TitleText returns the product title or "" when absent
func (p RawProduct) TitleText() string {
	return stringValue(p.Title())
}

// Image returns the first photo, then the single photo field, or "".
func (p RawProduct) Image() string {
	if photo := stringValue(p.FirstPhoto()); photo != "" {
		return photo
	}
	return stringValue(p.Photo())
}

// stringValue only accepts JSON strings; numbers or objects in a URL/title slot are treated as absent.
func stringValue(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}
