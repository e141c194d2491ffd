package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"two products", `{"data":{"products":[{"product_title":"a"},{"product_title":"b"}]}}`, 2},
		{"missing products", `{"data":{}}`, 0},
		{"products is an object", `{"data":{"products":{"product_title":"a"}}}`, 0},
		{"empty body", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := ParseProducts([]byte(tt.body))
			require.NotNil(t, products)
			assert.Len(t, products, tt.want)
		})
	}
}

func TestRawProduct_Accessors(t *testing.T) {
	p := NewRawProduct(`{
		"product_title": "boAt Airdopes 141",
		"product_photos": ["https://img/1.jpg", "https://img/2.jpg"],
		"product_photo": "https://img/single.jpg",
		"offer": {"offer_page_url": "https://www.flipkart.com/airdopes", "price": "₹1,299"}
	}`)

	assert.Equal(t, "boAt Airdopes 141", p.TitleText())
	assert.Equal(t, "https://img/1.jpg", p.Image())
	assert.Equal(t, "https://www.flipkart.com/airdopes", p.Link())
	assert.Empty(t, p.ProductLinkText())
	assert.Equal(t, "₹1,299", p.OfferPrice().String())
	assert.False(t, p.PriceExtractedValue().Exists())
}

func TestRawProduct_NonStringFieldsAreAbsent(t *testing.T) {
	p := NewRawProduct(`{"product_link": 42, "product_title": {"en": "x"}, "product_photos": [], "product_photo": "https://img/p.jpg"}`)

	assert.Empty(t, p.Link())
	assert.Empty(t, p.TitleText())
	assert.Equal(t, "https://img/p.jpg", p.Image())
}

func TestErrorTyping(t *testing.T) {
	upstream := fmt.Errorf("lookup: %w", &UpstreamError{StatusCode: 503})
	assert.ErrorIs(t, upstream, ErrUpstreamFailure)

	var ue *UpstreamError
	require.True(t, errors.As(upstream, &ue))
	assert.Equal(t, 503, ue.StatusCode)

	transport := &TransportError{Err: context.DeadlineExceeded}
	assert.ErrorIs(t, transport, ErrUpstreamFailure)
	assert.ErrorIs(t, transport, context.DeadlineExceeded)

	cfgErr := &ConfigurationError{Setting: "rapidapi.api_key", Err: ErrMissingAPIKey}
	assert.ErrorIs(t, cfgErr, ErrMissingAPIKey)
	assert.NotErrorIs(t, cfgErr, ErrUpstreamFailure)
	assert.Equal(t, "configuration error: rapidapi.api_key: product search API key not configured", cfgErr.Error())
}
