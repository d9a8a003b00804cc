package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flex is a number the marketplace may encode as a JSON number, a numeric
// string, a boolean or null. Unparseable values decode to zero.
type Flex float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "", "null", "false":
		*f = 0
		return nil
	case "true":
		*f = 1
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, _ := ParseFlex(s)
		*f = Flex(v)
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = Flex(v)
	return nil
}

// Float returns the value as float64.
func (f Flex) Float() float64 { return float64(f) }

// Int returns the value truncated to int64.
func (f Flex) Int() int64 { return int64(f) }

// ParseFlex parses a loosely formatted number ("12", "12.5", "12,5", "true").
// The boolean result reports whether s held a usable value.
func ParseFlex(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return 0, false
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LocalizedName is one entry of a per-locale name list.
type LocalizedName struct {
	Locale string `json:"locale"`
	Value  string `json:"value"`
}

// CatalogItem is a single listing returned by a catalog search or category page.
type CatalogItem struct {
	ProductID  Flex            `json:"product_id"`
	SellerID   Flex            `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	Price      Flex            `json:"price"`
	Name       []LocalizedName `json:"name"`
	Link       string          `json:"link,omitempty"`
}

// SearchContent is the body of a catalog search page.
type SearchContent struct {
	Items       []CatalogItem `json:"items"`
	HasNextPage Flex          `json:"has_next_page"`
}

// SearchPage is the response of the catalog search endpoint.
type SearchPage struct {
	Content SearchContent `json:"content"`
}

// ProductDetail is the response of the product data endpoint.
type ProductDetail struct {
	Retval  *Flex    `json:"retval"`
	Product *Product `json:"product"`
}

// OK reports whether the payload carries a zero status code.
func (d *ProductDetail) OK() bool {
	return d != nil && d.Retval != nil && *d.Retval == 0
}

// ReviewsPayload is the response of the seller reviews endpoint.
type ReviewsPayload struct {
	TotalItems Flex `json:"totalItems"`
	TotalGood  Flex `json:"totalGood"`
	TotalBad   Flex `json:"totalBad"`
}
