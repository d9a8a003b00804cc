package usecase

import (
	"testing"

	"github.com/offerlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChoices(t *testing.T) {
	tests := []struct {
		name      string
		request   string
		returnAll bool
		want      []domain.Candidate
	}{
		{
			name:    "cheapest candidate for the plan",
			request: "chatgpt plus",
			want: []domain.Candidate{
				{Price: 1000, ChoiceText: "Plus", Duration: "1 months", Months: intPtr(1)},
			},
		},
		{
			name:      "every candidate cheapest first",
			request:   "chatgpt plus",
			returnAll: true,
			want: []domain.Candidate{
				{Price: 1000, ChoiceText: "Plus", Duration: "1 months", Months: intPtr(1)},
				{Price: 2500, ChoiceText: "Plus", Duration: "3 months", Months: intPtr(3)},
				{Price: 6000, ChoiceText: "Plus", Duration: "12 months", Months: intPtr(12)},
			},
		},
		{
			name:    "requested duration",
			request: "chatgpt pro 12 месяцев",
			want: []domain.Candidate{
				{Price: 15000, ChoiceText: "Pro", Duration: "12 months", Months: intPtr(12)},
			},
		},
		{
			name:    "one candidate per requested month in month order",
			request: "plus 12 months or 1 month",
			want: []domain.Candidate{
				{Price: 1000, ChoiceText: "Plus", Duration: "1 months", Months: intPtr(1)},
				{Price: 6000, ChoiceText: "Plus", Duration: "12 months", Months: intPtr(12)},
			},
		},
		{
			name:    "requested duration that is not on offer",
			request: "plus 6 месяцев",
			want:    []domain.Candidate{},
		},
		{
			name:    "unknown plan",
			request: "business",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveChoices(planProduct(), 1000, "RUB", ParsePreferences(tt.request), tt.returnAll)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveChoices_Idempotent(t *testing.T) {
	product := planProduct()
	pref := ParsePreferences("chatgpt")

	first := ResolveChoices(product, 1000, "RUB", pref, true)
	second := ResolveChoices(product, 1000, "RUB", pref, true)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, planProduct(), product)
}

func TestResolveChoices_NilProduct(t *testing.T) {
	assert.Nil(t, ResolveChoices(nil, 1000, "RUB", ParsePreferences("plus"), false))
}

func TestResolveChoices_DurationInPlanVariant(t *testing.T) {
	product := &domain.Product{
		Options: []domain.Option{{
			Label: "Вариант подписки",
			Variants: []domain.Variant{
				{Text: "ChatGPT Plus 1 месяц", Default: 1},
				{Text: "ChatGPT Plus 12 месяцев", ModifyValue: 8000},
				{Text: "ChatGPT Plus API key", ModifyValue: -900},
			},
		}},
	}

	got := ResolveChoices(product, 1000, "RUB", ParsePreferences("plus 12 месяцев"), false)
	require.Len(t, got, 1)
	assert.Equal(t, 9000.0, got[0].Price)
	assert.Equal(t, "ChatGPT Plus 12 месяцев", got[0].ChoiceText)
	assert.Equal(t, "12 months", got[0].Duration)

	all := ResolveChoices(product, 1000, "RUB", ParsePreferences("plus"), true)
	require.Len(t, all, 2)
	for _, c := range all {
		assert.NotContains(t, c.ChoiceText, "API")
	}
}

func TestBuildSelection(t *testing.T) {
	region := domain.Option{
		Label: "Регион",
		Variants: []domain.Variant{
			{Text: "Global", Default: 1, ModifyValue: 300},
			{Text: "Turkey", ModifyValue: 100},
		},
	}
	activation := domain.Option{
		Label: "Способ получения",
		Name:  "Тип подписки",
		Variants: []domain.Variant{
			{Text: "Новый аккаунт", Default: 1},
			{Text: "Активация на ваш аккаунт", ModifyValue: 200},
		},
	}
	account := domain.Option{
		Label: "Аккаунт",
		Variants: []domain.Variant{
			{Text: "Нет аккаунта, создайте новый", Default: 1, ModifyValue: 100},
			{Text: "Есть аккаунт", ModifyValue: 100},
		},
	}

	tests := []struct {
		name      string
		extra     domain.Option
		wantText  string
		wantPrice float64
	}{
		{
			name:      "unrelated option takes the cheapest variant",
			extra:     region,
			wantText:  "Turkey",
			wantPrice: 1100,
		},
		{
			name:      "activation option prefers activation",
			extra:     activation,
			wantText:  "Активация на ваш аккаунт",
			wantPrice: 1200,
		},
		{
			name:      "account creation is avoided",
			extra:     account,
			wantText:  "Есть аккаунт",
			wantPrice: 1100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := planProduct()
			product.Options = append(product.Options, tt.extra)

			view := newProductView(product)
			prices := newPriceContext(product, 1000, "RUB")
			targets := findTargets(view, ParsePreferences("plus"))
			require.Len(t, targets, 1)
			require.NotNil(t, view.duration)

			selection := buildSelection(view, prices, targets[0], nil)
			require.Len(t, selection, 3)
			assert.Equal(t, "Plus", selection[0].Variant.Text)
			assert.Equal(t, "1 месяц", selection[1].Variant.Text)
			assert.Equal(t, tt.wantText, selection[2].Variant.Text)
			assert.Equal(t, tt.wantPrice, prices.total(selection.Variants()))
		})
	}
}

func TestDedupCandidates(t *testing.T) {
	candidates := []domain.Candidate{
		{Price: 500, ChoiceText: "Plus", Duration: "1 months"},
		{Price: 900, ChoiceText: "Pro", Duration: "1 months"},
		{Price: 400, ChoiceText: "Plus", Duration: "1 months"},
	}

	got := dedupCandidates(candidates)
	require.Len(t, got, 2)
	assert.Equal(t, 400.0, got[0].Price)
	assert.Equal(t, "Pro", got[1].ChoiceText)
}

func intPtr(v int) *int {
	return &v
}
