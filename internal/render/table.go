package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/offerlens/backend/internal/domain"
)

// maxAdWidth truncates the Ad column so rows stay on one line.
const maxAdWidth = 80

var (
	titleColor  = color.New(color.Bold)
	headerColor = color.New(color.FgCyan, color.Bold)
	footerColor = color.New(color.Faint)
)

// Table writes an aligned terminal table to w. Colors follow color.NoColor,
// so redirected output stays plain. Cells are aligned before coloring since
// escape sequences would count toward column widths.
func Table(w io.Writer, rows []domain.Row, title string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(Columns, "\t"))
	separator := make([]string, len(Columns))
	for i, name := range Columns {
		separator[i] = strings.Repeat("-", len([]rune(name)))
	}
	fmt.Fprintln(tw, strings.Join(separator, "\t"))

	for _, row := range toReportRows(rows) {
		fields := []string{
			strconv.Itoa(row.Index),
			row.Cost,
			row.Duration,
			row.Seller,
			strconv.Itoa(row.Reviews),
			row.GoodBad,
			truncate(row.Ad, maxAdWidth),
			row.Link,
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	if title != "" {
		titleColor.Fprintln(w, title)
	}
	header, body, _ := strings.Cut(buf.String(), "\n")
	headerColor.Fprintln(w, header)
	if _, err := io.WriteString(w, body); err != nil {
		return err
	}
	_, err := footerColor.Fprintf(w, "%d rows\n", len(rows))
	return err
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
