package plati

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/offerlens/backend/internal/domain"
)

var (
	productIDPattern = regexp.MustCompile(`/(\d+)/?(?:[?#].*)?$`)
	pricePattern     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	spacePattern     = regexp.MustCompile(`[\s\x{00a0}]+`)
)

// ParseCategoryBlock extracts listings from a category block HTML fragment.
// Each product link becomes one item, in document order; repeated links to
// the same product (image and title) are merged.
func ParseCategoryBlock(html, lang, linkPattern string) ([]domain.CatalogItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse category block: %w", err)
	}

	items := []domain.CatalogItem{}
	index := make(map[int64]int)

	doc.Find(`a[href*="/itm/"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		pid := productIDFromHref(href)
		if pid <= 0 {
			return
		}

		title := collapse(link.Text())
		if title == "" {
			title = collapse(link.AttrOr("title", ""))
		}

		if i, ok := index[pid]; ok {
			if len(items[i].Name) == 0 && title != "" {
				items[i].Name = []domain.LocalizedName{{Locale: lang, Value: title}}
			}
			return
		}

		item := domain.CatalogItem{
			ProductID: domain.Flex(pid),
			Link:      productLink(linkPattern, pid),
		}
		if title != "" {
			item.Name = []domain.LocalizedName{{Locale: lang, Value: title}}
		}

		if block := enclosingBlock(link); block != nil {
			item.Price = domain.Flex(parsePrice(block.Find(`[class*="price"]`).First().Text()))
			item.SellerName = collapse(block.Find(`a[href*="/seller/"]`).First().Text())
		}

		index[pid] = len(items)
		items = append(items, item)
	})

	return items, nil
}

// enclosingBlock returns the nearest ancestor holding a price element.
func enclosingBlock(link *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	link.Parents().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Find(`[class*="price"]`).Length() > 0 {
			found = s
			return false
		}
		return true
	})
	return found
}

func productIDFromHref(href string) int64 {
	m := productIDPattern.FindStringSubmatch(href)
	if m == nil {
		return 0
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// parsePrice reads the first number of a price label such as "1 299,50 ₽".
func parsePrice(text string) float64 {
	compact := spacePattern.ReplaceAllString(text, "")
	m := pricePattern.FindString(compact)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func collapse(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
