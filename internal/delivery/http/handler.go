package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	lookup       domain.PriceLookup
	preprocessor *usecase.QueryPreprocessor
	logger       *zap.Logger
}

// SearchRequest is the POST body for a price search
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Sort  string `json:"sort"`
}

// SearchResponse carries the pipeline output plus a display-ready view.
// Results keeps every slot, including unavailable ones with their search links;
// Available holds only priced results in the requested order.
type SearchResponse struct {
	Query     string               `json:"query"`
	Results   []domain.PriceResult `json:"results"`
	Available []domain.PriceResult `json:"available"`
	Summary   domain.LookupSummary `json:"summary"`
	Sort      usecase.SortOption   `json:"sort"`
}

// NewHandler creates a new HTTP handler. A nil lookup makes search endpoints
// report that price search is not configured.
func NewHandler(lookup domain.PriceLookup, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		lookup:       lookup,
		preprocessor: usecase.NewQueryPreprocessor(logger),
		logger:       logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// SearchPricesGET handles GET /prices/search?q=...&sort=...
func (h *Handler) SearchPricesGET(c *gin.Context) {
	h.search(c, c.Query("q"), c.Query("sort"))
}

// SearchPrices handles POST /prices/search with a JSON body
func (h *Handler) SearchPrices(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: query is required"})
		return
	}
	h.search(c, req.Query, req.Sort)
}

func (h *Handler) search(c *gin.Context, input, sortParam string) {
	if h.lookup == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "price search is not configured"})
		return
	}

	sortOption, err := usecase.ParseSortOption(sortParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := h.preprocessor.PreprocessQuery(input)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidQuery.Error()})
		return
	}

	result, err := h.lookup.LookupPrices(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		status, body := errorResponse(err)
		h.logger.Warn("price search failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Error(err),
		)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Query:     result.Query,
		Results:   result.Results,
		Available: usecase.SortForDisplay(result.Results, sortOption),
		Summary:   usecase.Summarize(result),
		Sort:      sortOption,
	})
}

// errorResponse maps lookup errors to an HTTP status and JSON body
func errorResponse(err error) (int, gin.H) {
	var (
		cfgErr       *domain.ConfigurationError
		upstreamErr  *domain.UpstreamError
		transportErr *domain.TransportError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError, gin.H{"error": "price search is not configured"}
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, gin.H{
			"error":          "price search API request failed",
			"upstreamStatus": upstreamErr.StatusCode,
		}
	case errors.As(err, &transportErr) && isTimeout(err):
		return http.StatusGatewayTimeout, gin.H{"error": "price search timed out"}
	case errors.As(err, &transportErr), errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadGateway, gin.H{"error": "price search temporarily unavailable"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal server error"}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
