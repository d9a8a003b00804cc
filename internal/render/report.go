// Package render turns ranked offer rows into human-readable reports.
package render

import (
	"strconv"
	"strings"

	"github.com/offerlens/backend/internal/domain"
)

// Columns of every report, in display order.
var Columns = []string{"#", "Cost", "Pro Length", "Seller", "Seller Reviews", "Good/Bad", "Ad", "Link"}

// reportRow is the display form of a domain.Row.
type reportRow struct {
	Index      int
	Cost       string
	CostValue  float64
	Duration   string
	Seller     string
	SellerKey  string
	Reviews    int
	ReviewsFmt string
	GoodBad    string
	Ad         string
	Link       string
}

func toReportRows(rows []domain.Row) []reportRow {
	out := make([]reportRow, 0, len(rows))
	for i, row := range rows {
		duration := row.Duration
		if duration == "" {
			duration = "-"
		}
		out = append(out, reportRow{
			Index:      i + 1,
			Cost:       row.Price,
			CostValue:  row.PriceValue,
			Duration:   duration,
			Seller:     row.Seller,
			SellerKey:  strings.ToLower(row.Seller),
			Reviews:    row.SellerReviews,
			ReviewsFmt: groupInt(row.SellerReviews),
			GoodBad:    row.SellerGoodBad,
			Ad:         AdText(row),
			Link:       row.Link,
		})
	}
	return out
}

// AdText is the listing title, followed by the resolved choice when there is one.
func AdText(row domain.Row) string {
	if row.ChoiceText == "" {
		return row.Title
	}
	return row.Title + " | PRO: " + row.ChoiceText
}

// groupInt formats n with comma thousands separators.
func groupInt(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
