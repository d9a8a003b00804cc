package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/offerlens/backend/internal/domain"
)

// Duration unit vocabularies (English and Russian).
const (
	monthUnits       = `месяц|месяца|месяцев|мес|month|months|mo|m`
	monthUnitsLoose  = `мес|месяц|месяца|месяцев|м|month|months|mo|m`
	yearUnits        = `год|года|лет|year|years|yr`
	dayUnits         = `дн|день|дня|дней|day|days`
	bareYearWords    = `год|year`
	bareMonthWords   = `месяц|month`
	monthsPerYear    = 12
	termSplitPattern = `[\s,;|]+`
)

// Compiled duration patterns
var (
	// "1-3 months", "3/6 мес"
	durationRangePattern = regexp.MustCompile(`(\d+)\s*[-–/]\s*(\d+)\s*(?:` + monthUnitsLoose + `)` + wordEnd)
	// "1 month", "1-Month", "12m"
	durationMonthPattern = regexp.MustCompile(`(\d+)\s*[-–]?\s*(?:` + monthUnitsLoose + `)` + wordEnd)
	durationYearPattern  = regexp.MustCompile(`(\d+)\s*(?:` + yearUnits + `)` + wordEnd)
	durationDayPattern   = regexp.MustCompile(`(\d+)\s*(?:` + dayUnits + `)` + wordEnd)

	monthsPattern       = regexp.MustCompile(`(\d+)\s*(?:` + monthUnits + `)` + wordEnd)
	yearsPattern        = regexp.MustCompile(`(\d+)\s*(?:` + yearUnits + `)` + wordEnd)
	hyphenMonthPattern  = regexp.MustCompile(`(\d+)\s*[-–]\s*month` + wordEnd)
	bareYearPattern     = regexp.MustCompile(wordStart + `(` + bareYearWords + `)` + wordEnd)
	bareMonthPattern    = regexp.MustCompile(wordStart + `(` + bareMonthWords + `)` + wordEnd)
	termSeparator       = regexp.MustCompile(termSplitPattern)
	whitespaceCollapser = regexp.MustCompile(`\s+`)
)

// CleanText collapses runs of whitespace and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceCollapser.ReplaceAllString(s, " "))
}

// ParsePreferences turns free-text buyer intent into plan tags and requested
// durations in months. With no plan keyword every known plan is accepted.
func ParsePreferences(text string) domain.Preference {
	t := strings.ToLower(text)
	pref := domain.Preference{
		Plans:  make(map[string]bool),
		Months: make(map[int]bool),
	}

	if proPattern.MatchString(t) {
		pref.Plans[domain.PlanPro] = true
	}
	if plusPattern.MatchString(t) {
		pref.Plans[domain.PlanPlus] = true
	}
	if goPattern.MatchString(t) {
		pref.Plans[domain.PlanGo] = true
	}
	if businessPattern.MatchString(t) {
		pref.Plans[domain.PlanBusiness] = true
	}
	if len(pref.Plans) == 0 {
		for _, plan := range domain.AllPlans {
			pref.Plans[plan] = true
		}
	}

	for _, m := range monthsPattern.FindAllStringSubmatch(t, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			pref.Months[n] = true
		}
	}
	for _, m := range yearsPattern.FindAllStringSubmatch(t, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			pref.Months[n*monthsPerYear] = true
		}
	}
	if hasBareUnit(t, bareYearPattern) {
		pref.Months[monthsPerYear] = true
	}
	if hasBareUnit(t, bareMonthPattern) {
		pref.Months[1] = true
	}

	return pref
}

// hasBareUnit reports whether text mentions a unit word that is not preceded
// by a number ("a year" rather than "2 years").
func hasBareUnit(text string, pattern *regexp.Regexp) bool {
	for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
		before := strings.TrimRight(text[:loc[2]], " \t-–")
		if before == "" {
			return true
		}
		last := before[len(before)-1]
		if last < '0' || last > '9' {
			return true
		}
	}
	return false
}

// ExtractDuration returns a human duration string such as "1 months",
// "3-6 months", "1 years" or "30 days", or "" when text names no duration.
func ExtractDuration(text string) string {
	t := strings.ToLower(text)

	if m := durationRangePattern.FindStringSubmatch(t); m != nil {
		return fmt.Sprintf("%s-%s months", m[1], m[2])
	}
	if m := durationMonthPattern.FindStringSubmatch(t); m != nil {
		return fmt.Sprintf("%s months", m[1])
	}
	if m := durationYearPattern.FindStringSubmatch(t); m != nil {
		return fmt.Sprintf("%s years", m[1])
	}
	if m := durationDayPattern.FindStringSubmatch(t); m != nil {
		return fmt.Sprintf("%s days", m[1])
	}
	return ""
}

// ExtractDurationMonths parses a duration in months from variant text.
func ExtractDurationMonths(text string) (int, bool) {
	t := strings.ToLower(text)

	if m := monthsPattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	if m := yearsPattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n * monthsPerYear, true
		}
	}
	if m := hyphenMonthPattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	return 0, false
}

// SplitTerms lowercases a filter term string and splits it on whitespace,
// commas, semicolons and pipes.
func SplitTerms(value string) []string {
	if value == "" {
		return nil
	}
	var terms []string
	for _, t := range termSeparator.Split(strings.ToLower(value), -1) {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// PickName chooses a display name for lang: exact locale first, then the same
// language, then the first entry.
func PickName(entries []domain.LocalizedName, lang string) string {
	if len(entries) == 0 {
		return ""
	}
	for _, e := range entries {
		if e.Locale == lang {
			return CleanText(e.Value)
		}
	}
	prefix := strings.SplitN(lang, "-", 2)[0]
	for _, e := range entries {
		if strings.HasPrefix(e.Locale, prefix) {
			return CleanText(e.Value)
		}
	}
	return CleanText(entries[0].Value)
}
