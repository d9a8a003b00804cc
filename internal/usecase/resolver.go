package usecase

import (
	"sort"
	"strings"

	"github.com/offerlens/backend/internal/domain"
)

// productView is a product reduced to the options that take part in pricing.
type productView struct {
	options []*optionView
	// duration is the option carrying the subscription term, if any.
	duration *optionView
}

// target is a plan-matching variant together with the option it belongs to.
type target struct {
	option  *optionView
	variant *domain.Variant
}

func newProductView(product *domain.Product) *productView {
	view := &productView{options: visibleOptions(product)}
	view.duration = findDurationOption(view.options)
	return view
}

// findDurationOption picks the first option labelled as a duration; failing
// that, the first option with a variant whose text parses to a month count.
func findDurationOption(options []*optionView) *optionView {
	for _, ov := range options {
		if IsDurationOption(ov.label) {
			return ov
		}
	}
	for _, ov := range options {
		for _, v := range ov.variants {
			if _, ok := ExtractDurationMonths(CleanText(v.Text)); ok {
				return ov
			}
		}
	}
	return nil
}

// findTargets lists every variant that is a subscription choice for one of
// the preferred plans.
func findTargets(view *productView, pref domain.Preference) []target {
	var targets []target
	for _, ov := range view.options {
		for _, v := range ov.variants {
			text := CleanText(v.Text)
			if text == "" {
				continue
			}
			if !IsSubscriptionContext(text, ov.label) || IsAPIOffer(text) {
				continue
			}
			if intersects(PlanTags(text), pref.Plans) {
				targets = append(targets, target{option: ov, variant: v})
			}
		}
	}
	return targets
}

// durationCandidates returns the duration variants to combine with a target.
// A nil entry stands for "no duration option".
func durationCandidates(view *productView, pref domain.Preference) []*domain.Variant {
	if view.duration == nil {
		return []*domain.Variant{nil}
	}

	var withMonths []*domain.Variant
	for _, v := range view.duration.variants {
		months, ok := ExtractDurationMonths(CleanText(v.Text))
		if !ok {
			continue
		}
		if pref.HasMonths() && !pref.Months[months] {
			continue
		}
		withMonths = append(withMonths, v)
	}

	if len(withMonths) == 0 {
		return []*domain.Variant{view.duration.def}
	}
	return withMonths
}

// buildSelection chooses one variant for every visible option given a target
// variant and an optional duration variant. Precedence per option:
// target, duration, activation preference, account-creation avoidance,
// cheapest unrelated variant.
func buildSelection(view *productView, prices priceContext, t target, durationVariant *domain.Variant) domain.Selection {
	selection := make(domain.Selection, 0, len(view.options))

	for _, ov := range view.options {
		choice := ov.def
		isDuration := ov == view.duration || IsDurationOption(ov.label)
		isActivation := IsActivationOption(ov.label)

		switch {
		case ov == t.option:
			choice = t.variant
		case ov == view.duration && durationVariant != nil:
			choice = durationVariant
		default:
			if isActivation {
				if act := firstVariant(ov.variants, func(v *domain.Variant) bool {
					return IsActivationText(CleanText(v.Text))
				}); act != nil {
					choice = act
				}
			}
			if IsAccountCreation(CleanText(choice.Text)) {
				if alt := firstVariant(ov.variants, func(v *domain.Variant) bool {
					return !IsAccountCreation(CleanText(v.Text))
				}); alt != nil {
					choice = alt
				}
			}
			if !isDuration && !isActivation {
				if cheapest := cheapestVariant(ov.variants, prices); prices.delta(cheapest) < prices.delta(choice) {
					choice = cheapest
				}
			}
		}

		selection = append(selection, domain.Choice{Option: ov.option, Variant: choice})
	}

	return selection
}

func firstVariant(variants []*domain.Variant, pred func(*domain.Variant) bool) *domain.Variant {
	for _, v := range variants {
		if pred(v) {
			return v
		}
	}
	return nil
}

// cheapestVariant returns the variant with the lowest modifier; ties keep the earliest.
func cheapestVariant(variants []*domain.Variant, prices priceContext) *domain.Variant {
	var best *domain.Variant
	bestDelta := 0.0
	for _, v := range variants {
		d := prices.delta(v)
		if best == nil || d < bestDelta {
			best, bestDelta = v, d
		}
	}
	return best
}

// chosenText returns the cleaned text chosen for option, or "".
func chosenText(selection domain.Selection, option *optionView) string {
	if option == nil {
		return ""
	}
	for _, c := range selection {
		if c.Option == option.option {
			return CleanText(c.Variant.Text)
		}
	}
	return ""
}

// ResolveChoices finds the qualifying option combinations of product for the
// buyer's preference and prices them.
//
// When the preference names months, the cheapest candidate per requested month
// is returned in month order. Otherwise returnAll selects between every
// candidate (cheapest first) and only the cheapest one.
func ResolveChoices(product *domain.Product, basePrice float64, currency string, pref domain.Preference, returnAll bool) []domain.Candidate {
	if product == nil {
		return nil
	}

	view := newProductView(product)
	targets := findTargets(view, pref)
	if len(targets) == 0 {
		return nil
	}

	prices := newPriceContext(product, basePrice, currency)
	durations := durationCandidates(view, pref)

	var candidates []domain.Candidate
	for _, t := range targets {
		choiceText := CleanText(t.variant.Text)
		if IsAPIOffer(choiceText) {
			continue
		}

		for _, dv := range durations {
			selection := buildSelection(view, prices, t, dv)
			candidates = append(candidates, describeCandidate(selection, prices, view, choiceText))
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	ordered := dedupCandidates(candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Price < ordered[j].Price
	})

	if pref.HasMonths() {
		return cheapestPerMonth(ordered, pref)
	}
	if returnAll {
		return ordered
	}
	return ordered[:1]
}

// describeCandidate prices a selection and derives its duration, preferring the
// duration option's text, then the target's, then all chosen texts together.
func describeCandidate(selection domain.Selection, prices priceContext, view *productView, choiceText string) domain.Candidate {
	durationText := chosenText(selection, view.duration)

	texts := make([]string, 0, len(selection))
	for _, c := range selection {
		texts = append(texts, CleanText(c.Variant.Text))
	}
	joined := strings.Join(texts, " ")

	candidate := domain.Candidate{
		Price:      prices.total(selection.Variants()),
		ChoiceText: choiceText,
	}

	for _, text := range []string{durationText, choiceText, joined} {
		if d := ExtractDuration(text); d != "" {
			candidate.Duration = d
			break
		}
	}
	for _, text := range []string{durationText, choiceText, joined} {
		if m, ok := ExtractDurationMonths(text); ok {
			candidate.Months = &m
			break
		}
	}

	return candidate
}

// dedupCandidates keeps the cheapest candidate per (choice text, duration),
// preserving first-seen order.
func dedupCandidates(candidates []domain.Candidate) []domain.Candidate {
	type key struct{ choice, duration string }

	index := make(map[key]int)
	var out []domain.Candidate
	for _, c := range candidates {
		k := key{c.ChoiceText, c.Duration}
		if i, ok := index[k]; ok {
			if c.Price < out[i].Price {
				out[i] = c
			}
			continue
		}
		index[k] = len(out)
		out = append(out, c)
	}
	return out
}

// cheapestPerMonth picks the cheapest candidate for each requested month that
// has one. Months without a match are absent.
func cheapestPerMonth(ordered []domain.Candidate, pref domain.Preference) []domain.Candidate {
	best := make(map[int]domain.Candidate)
	for _, c := range ordered {
		if c.Months == nil || !pref.Months[*c.Months] {
			continue
		}
		if current, ok := best[*c.Months]; !ok || c.Price < current.Price {
			best[*c.Months] = c
		}
	}

	months := make([]int, 0, len(best))
	for m := range best {
		months = append(months, m)
	}
	sort.Ints(months)

	out := make([]domain.Candidate, 0, len(months))
	for _, m := range months {
		out = append(out, best[m])
	}
	return out
}
