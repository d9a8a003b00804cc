package usecase

import (
	"strings"

	"github.com/offerlens/backend/internal/domain"
)

// VisibleVariants returns the option's selectable variants in their given order.
func VisibleVariants(option *domain.Option) []*domain.Variant {
	if option == nil {
		return nil
	}
	var visible []*domain.Variant
	for i := range option.Variants {
		if option.Variants[i].IsVisible() {
			visible = append(visible, &option.Variants[i])
		}
	}
	return visible
}

// DefaultVariant returns the first visible variant flagged as default, else the
// first visible variant, else nil.
func DefaultVariant(option *domain.Option) *domain.Variant {
	visible := VisibleVariants(option)
	for _, v := range visible {
		if v.IsDefault() {
			return v
		}
	}
	if len(visible) > 0 {
		return visible[0]
	}
	return nil
}

// optionView is an option reduced to its visible variants.
type optionView struct {
	option   *domain.Option
	variants []*domain.Variant
	def      *domain.Variant
	// label is the lowercased "label name" text used for classification.
	label string
}

// visibleOptions drops options without visible variants.
func visibleOptions(product *domain.Product) []*optionView {
	var views []*optionView
	for i := range product.Options {
		opt := &product.Options[i]
		variants := VisibleVariants(opt)
		if len(variants) == 0 {
			continue
		}
		views = append(views, &optionView{
			option:   opt,
			variants: variants,
			def:      DefaultVariant(opt),
			label:    optionLabel(opt),
		})
	}
	return views
}

func optionLabel(opt *domain.Option) string {
	return strings.ToLower(opt.Label + " " + opt.Name)
}
