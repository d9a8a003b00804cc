package domain

import "encoding/json"

// Known plan tags.
const (
	PlanPro      = "pro"
	PlanPlus     = "plus"
	PlanGo       = "go"
	PlanBusiness = "business"
)

// AllPlans is the closed plan vocabulary, used when a request names no plan.
var AllPlans = []string{PlanPro, PlanPlus, PlanGo, PlanBusiness}

// Product represents a marketplace product with its option tree
type Product struct {
	ID          Flex          `json:"id"`
	Name        string        `json:"name"`
	Price       Flex          `json:"price"`
	Currency    string        `json:"currency,omitempty"`
	IsAvailable *Flex         `json:"is_available"`
	Prices      ProductPrices `json:"prices"`
	Options     []Option      `json:"options"`
	Seller      SellerRef     `json:"seller"`
}

// Available reports whether the product is on sale. A missing flag means available.
func (p *Product) Available() bool {
	return p.IsAvailable == nil || *p.IsAvailable != 0
}

// ProductPrices holds the product's price block. Default maps a currency code
// to the product price in that currency; values may be numbers or strings.
type ProductPrices struct {
	Default map[string]json.RawMessage `json:"default"`
}

// SellerRef identifies the seller of a product.
type SellerRef struct {
	ID   Flex   `json:"id"`
	Name string `json:"name"`
}

// Option is a configurable attribute of a product (plan, duration, activation method...)
type Option struct {
	ID       Flex      `json:"id"`
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     string    `json:"type,omitempty"`
	Required Flex      `json:"required"`
	Variants []Variant `json:"variants"`
}

// Variant is a single selectable value of an option
type Variant struct {
	Value              json.RawMessage `json:"value,omitempty"`
	Text               string          `json:"text"`
	Default            Flex            `json:"default"`
	ModifyType         string          `json:"modify_type"`
	ModifyValue        Flex            `json:"modify_value"`
	ModifyValueDefault *Flex           `json:"modify_value_default"`
	Visible            *Flex           `json:"visible"`
}

// IsVisible reports whether the variant can be selected. A missing flag means visible.
func (v *Variant) IsVisible() bool {
	return v.Visible == nil || *v.Visible != 0
}

// IsDefault reports whether the variant is flagged as the option's default.
func (v *Variant) IsDefault() bool {
	return v.Default == 1
}

// Amount returns the modifier amount, preferring modify_value_default when present.
func (v *Variant) Amount() float64 {
	if v.ModifyValueDefault != nil {
		return v.ModifyValueDefault.Float()
	}
	return v.ModifyValue.Float()
}

// Preference is the structured form of a buyer's free-text intent
type Preference struct {
	Plans  map[string]bool
	Months map[int]bool
}

// HasMonths reports whether the buyer asked for specific durations.
func (p Preference) HasMonths() bool {
	return len(p.Months) > 0
}

// Choice pairs an option with the variant chosen for it.
type Choice struct {
	Option  *Option
	Variant *Variant
}

// Selection holds one Choice per option that has at least one visible variant,
// in option order.
type Selection []Choice

// Variants returns the chosen variants in option order.
func (s Selection) Variants() []*Variant {
	out := make([]*Variant, 0, len(s))
	for _, c := range s {
		out = append(out, c.Variant)
	}
	return out
}

// Candidate is one fully priced, qualifying combination of variants
type Candidate struct {
	Price      float64 `json:"price_value"`
	ChoiceText string  `json:"choice_text"`
	Duration   string  `json:"duration"`
	Months     *int    `json:"duration_months,omitempty"`
}

// Offer is a classified product: its title and the qualifying candidates.
type Offer struct {
	Title   string      `json:"title"`
	Choices []Candidate `json:"choices"`
}

// ReviewSummary aggregates a seller's review counts
type ReviewSummary struct {
	Total         int     `json:"total"`
	Good          int     `json:"good"`
	Bad           int     `json:"bad"`
	PositiveRatio float64 `json:"positive_ratio"`
}

// VariantView is the presentable form of a visible variant.
type VariantView struct {
	Value              json.RawMessage `json:"value,omitempty"`
	Text               string          `json:"text"`
	Default            bool            `json:"default"`
	ModifyType         string          `json:"modify_type"`
	ModifyValue        float64         `json:"modify_value"`
	PriceIfSelected    float64         `json:"price_if_selected"`
	PriceIfSelectedFmt string          `json:"price_if_selected_fmt"`
}

// OptionView is the presentable form of an option with its visible variants.
type OptionView struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Type     string        `json:"type,omitempty"`
	Required bool          `json:"required"`
	Variants []VariantView `json:"variants"`
}

// Row is one presentable search result
type Row struct {
	ProductID      int64        `json:"product_id"`
	Title          string       `json:"title"`
	Price          string       `json:"price"`
	PriceValue     float64      `json:"price_value"`
	Currency       string       `json:"currency"`
	Duration       string       `json:"duration"`
	DurationMonths *int         `json:"duration_months,omitempty"`
	Seller         string       `json:"seller"`
	SellerReviews  int          `json:"seller_reviews"`
	Good           int          `json:"good"`
	Bad            int          `json:"bad"`
	SellerGoodBad  string       `json:"seller_good_bad"`
	PositiveRatio  float64      `json:"positive_ratio"`
	Link           string       `json:"link"`
	ChoiceText     string       `json:"choice_text"`
	Options        []OptionView `json:"options,omitempty"`
}
