package plati

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/offerlens/backend/internal/domain"
)

// SearchURL builds the catalog search request URL
func (c *Client) SearchURL(p domain.SearchParams) string {
	params := url.Values{}
	params.Set("categoryId", "")
	params.Set("getProductsRecursive", "true")
	params.Set("sellerCategoryId", "")
	params.Set("productId", "")
	params.Set("productName", p.Query)
	params.Set("ownerId", c.cfg.OwnerID)
	params.Set("ownerCategoryId", "")
	params.Set("sellerId", "")
	params.Set("sellerName", "")
	params.Set("currency", p.Currency)
	params.Set("page", strconv.Itoa(p.Page))
	params.Set("count", strconv.Itoa(p.PerPage))
	params.Set("individual", "false")
	params.Set("video", "false")
	params.Set("image", "false")
	params.Set("sortBy", p.Sort)
	params.Set("priceFrom", "")
	params.Set("priceTo", "")
	params.Set("includeAggregations", "true")
	params.Set("fuzzy", "false")
	params.Set("lang", p.Lang)

	return fmt.Sprintf("%s?%s", c.cfg.SearchURL, params.Encode())
}

// ProductDataURL builds the product data request URL, hidden variants included
func (c *Client) ProductDataURL(productID int64, currency, lang string) string {
	params := url.Values{}
	params.Set("lang", lang)
	params.Set("currency", currency)
	params.Set("showHiddenVariants", "1")

	return fmt.Sprintf("%s?%s", fmt.Sprintf(c.cfg.ProductURL, productID), params.Encode())
}

// ReviewsURL builds the seller reviews request URL. One row is enough since
// only the totals are read.
func (c *Client) ReviewsURL(sellerID int64, lang string) string {
	params := url.Values{}
	params.Set("seller_id", strconv.FormatInt(sellerID, 10))
	params.Set("owner_id", "1")
	params.Set("type", "all")
	params.Set("page", "1")
	params.Set("rows", "1")
	params.Set("lang", lang)

	return fmt.Sprintf("%s?%s", c.cfg.ReviewsURL, params.Encode())
}

// CategoryURL builds the category listing block URL
func (c *Client) CategoryURL(p domain.CategoryParams) string {
	params := url.Values{}
	params.Set("id_c", p.CategoryID)
	params.Set("id_cb", strconv.Itoa(p.SubcategoryID))
	params.Set("sort", p.Sort)
	params.Set("page", strconv.Itoa(p.Page))
	params.Set("rows", strconv.Itoa(p.PerPage))
	params.Set("curr", p.Currency)
	params.Set("lang", p.Lang)

	return fmt.Sprintf("%s?%s", c.cfg.CategoryURL, params.Encode())
}

// ProductLink returns the public listing URL of a product
func (c *Client) ProductLink(productID int64) string {
	return productLink(c.cfg.LinkURL, productID)
}

func productLink(pattern string, productID int64) string {
	if pattern == "" {
		pattern = "https://plati.market/itm/i/%d"
	}
	return fmt.Sprintf(pattern, productID)
}
