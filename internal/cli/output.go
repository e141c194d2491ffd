package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(f string) bool {
	return f == formatTable || f == formatJSON || f == formatYAML
}

type resultRow struct {
	Store         string `json:"store" yaml:"store"`
	Title         string `json:"productTitle" yaml:"title"`
	Price         int    `json:"price" yaml:"price"`
	OriginalPrice int    `json:"originalPrice,omitempty" yaml:"original_price,omitempty"`
	Discount      int    `json:"discount,omitempty" yaml:"discount,omitempty"`
	PriceDrop     bool   `json:"isPriceDrop" yaml:"price_drop"`
	Available     bool   `json:"isAvailable" yaml:"available"`
	URL           string `json:"productUrl" yaml:"url"`
}

type summaryView struct {
	LowestPrice    int    `json:"lowestPrice" yaml:"lowest_price"`
	AvailableCount int    `json:"availableCount" yaml:"available_count"`
	BestStore      string `json:"bestStore,omitempty" yaml:"best_store,omitempty"`
}

type lookupView struct {
	Query    string      `json:"query" yaml:"query"`
	Fallback bool        `json:"fallback" yaml:"fallback"`
	Summary  summaryView `json:"summary" yaml:"summary"`
	Results  []resultRow `json:"results" yaml:"results"`
}

func newLookupView(result *domain.LookupResult, rows []domain.PriceResult) lookupView {
	s := usecase.Summarize(result)
	view := lookupView{
		Query:    result.Query,
		Fallback: result.Fallback,
		Summary: summaryView{
			LowestPrice:    s.LowestPrice,
			AvailableCount: s.AvailableCount,
			BestStore:      s.BestStore,
		},
		Results: make([]resultRow, 0, len(rows)),
	}

	for _, r := range rows {
		row := resultRow{
			Store:     r.Store,
			Title:     r.ProductTitle,
			Price:     r.Price,
			PriceDrop: r.IsPriceDrop,
			Available: r.IsAvailable,
			URL:       r.ProductURL,
		}
		if r.OriginalPrice != nil {
			row.OriginalPrice = *r.OriginalPrice
		}
		if r.Discount != nil {
			row.Discount = *r.Discount
		}
		view.Results = append(view.Results, row)
	}

	return view
}

func render(w io.Writer, format string, view lookupView) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(view)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		return renderTable(w, view)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func renderTable(w io.Writer, view lookupView) error {
	fmt.Fprintf(w, "Results for %q\n", view.Query)
	if view.Fallback {
		fmt.Fprintln(w, "No supported store matched, showing top results")
	}
	fmt.Fprintln(w)

	if len(view.Results) == 0 {
		fmt.Fprintln(w, "No prices found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STORE\tPRICE\tMRP\tOFF\tDROP\tLINK")
	for _, r := range view.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Store,
			priceCell(r.Price),
			priceCell(r.OriginalPrice),
			discountCell(r.Discount),
			dropCell(r.PriceDrop),
			r.URL,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if view.Summary.AvailableCount > 0 {
		fmt.Fprintf(w, "\nLowest: %s at %s (%d available)\n",
			usecase.FormatPrice(view.Summary.LowestPrice),
			view.Summary.BestStore,
			view.Summary.AvailableCount,
		)
	}
	return nil
}

func priceCell(p int) string {
	if p <= 0 {
		return "-"
	}
	return usecase.FormatPrice(p)
}

func discountCell(d int) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", d)
}

func dropCell(drop bool) string {
	if drop {
		return "yes"
	}
	return ""
}
