package usecase

import (
	"regexp"
	"strings"

	"github.com/offerlens/backend/internal/domain"
)

// RE2's \b only knows ASCII word characters, so Cyrillic vocabulary needs
// explicit Unicode-aware boundaries. Both consume the neighbouring character.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// word wraps an alternation in Unicode word boundaries.
func word(alternatives string) string {
	return wordStart + `(?:` + alternatives + `)` + wordEnd
}

// Compiled vocabulary patterns. All of them are matched against lowercased text.
var (
	proPattern      = regexp.MustCompile(`(?i)` + word(`pro|про`))
	plusPattern     = regexp.MustCompile(`(?i)` + word(`plus`) + `|плюс`)
	goPattern       = regexp.MustCompile(`(?i)` + word(`go`))
	businessPattern = regexp.MustCompile(`(?i)` + word(`business`) + `|бизнес`)

	// Matches "PRO is not needed" phrasing, e.g. "не нужна подписка PRO", "no PRO".
	notProPattern = regexp.MustCompile(`(?i)` + word(
		`не\s+нужн[а-яё]*\s+подписк[а-яё]*\s+pro|without\s+pro|no\s+pro|без\s+pro`,
	))

	apiOfferPattern       = regexp.MustCompile(`(?i)` + word(`api`) + `|api[\s_-]*key|token|токен|ключ`)
	subscriptionPattern   = regexp.MustCompile(`(?i)подпис|subscription|месяц|month|год|year|активац|продлен`)
	serviceOptionPattern  = regexp.MustCompile(`(?i)вариант|услуг|оказани|service|plan|тариф|подпис`)
	durationOptionPattern = regexp.MustCompile(`(?i)срок|duration|month|year|мес|год`)
	activationPattern     = regexp.MustCompile(`(?i)активац|продлен|activation|renewal`)
	accountCreatePattern  = regexp.MustCompile(`(?i)нет аккаунта|создайте|new account|выдач`)
)

// PlanTags returns the plan tags mentioned in text. A "pro" mention that is
// negated ("no PRO subscription needed") is reported as "plus" instead.
func PlanTags(text string) map[string]bool {
	low := strings.ToLower(text)
	tags := make(map[string]bool)

	if proPattern.MatchString(low) {
		if notProPattern.MatchString(low) {
			tags[domain.PlanPlus] = true
		} else {
			tags[domain.PlanPro] = true
		}
	}
	if plusPattern.MatchString(low) {
		tags[domain.PlanPlus] = true
	}
	if goPattern.MatchString(low) {
		tags[domain.PlanGo] = true
	}
	if businessPattern.MatchString(low) {
		tags[domain.PlanBusiness] = true
	}

	return tags
}

// IsSubscriptionContext reports whether a variant reads like a subscription
// choice, either by its own text or by the label of the option owning it.
func IsSubscriptionContext(variantText, optionText string) bool {
	return subscriptionPattern.MatchString(strings.ToLower(variantText)) ||
		serviceOptionPattern.MatchString(strings.ToLower(optionText))
}

// IsAPIOffer reports whether text describes developer API goods (keys, tokens).
func IsAPIOffer(text string) bool {
	return apiOfferPattern.MatchString(strings.ToLower(text))
}

// IsDurationOption reports whether an option label talks about a term/duration.
func IsDurationOption(label string) bool {
	return durationOptionPattern.MatchString(strings.ToLower(label))
}

// IsActivationOption reports whether an option chooses between activation modes.
func IsActivationOption(label string) bool {
	low := strings.ToLower(label)
	return activationPattern.MatchString(low) || strings.Contains(low, "тип подпис")
}

// IsActivationText reports whether a variant describes activation or renewal.
func IsActivationText(text string) bool {
	return activationPattern.MatchString(strings.ToLower(text))
}

// IsAccountCreation reports whether a variant asks the seller to create a new account.
func IsAccountCreation(text string) bool {
	return accountCreatePattern.MatchString(strings.ToLower(text))
}

// intersects reports whether the two tag sets share a member.
func intersects(a, b map[string]bool) bool {
	for tag := range a {
		if b[tag] {
			return true
		}
	}
	return false
}
