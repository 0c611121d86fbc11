package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_ZeroValueIsAll(t *testing.T) {
	var f Filter[string]
	assert.True(t, f.IsAll())
	assert.True(t, f.Equal(All[string]()))
	assert.False(t, f.Equal(Specific("")))
}

func TestFilter_JSON(t *testing.T) {
	data, err := json.Marshal(All[string]())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"all"}`, string(data))

	data, err = json.Marshal(Specific("Ozon"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"specific","value":"Ozon"}`, string(data))

	var f Filter[string]
	require.NoError(t, json.Unmarshal(data, &f))
	v, ok := f.Value()
	assert.True(t, ok)
	assert.Equal(t, "Ozon", v)
}

func TestFilter_DecodesLegacyForms(t *testing.T) {
	cases := map[string]Filter[string]{
		`null`:               All[string](),
		`"Все"`:              All[string](),
		`"Все маркетплейсы"`: All[string](),
		`"Все склады"`:       All[string](),
		`"Все категории"`:    All[string](),
		`"Wildberries"`:      Specific("Wildberries"),
		`{"kind":""}`:        All[string](),
	}

	for raw, want := range cases {
		var f Filter[string]
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		assert.True(t, want.Equal(f), raw)
	}
}

func TestFilter_RejectsMalformed(t *testing.T) {
	for _, raw := range []string{`{"kind":"specific"}`, `{"kind":"some"}`, `42`} {
		var f Filter[string]
		assert.Error(t, json.Unmarshal([]byte(raw), &f), raw)
	}
}

func TestParseOption(t *testing.T) {
	assert.True(t, ParseOption(AllWarehousesLabel).IsAll())
	assert.True(t, ParseOption("  ").IsAll())
	assert.True(t, ParseOption("Казань").Equal(Specific("Казань")))

	assert.Equal(t, AllCategoriesLabel, CategoryDisplayName(All[string]()))
	assert.Equal(t, "Ozon", MarketplaceDisplayName(Specific("Ozon")))
	assert.True(t, IsOption(MarketplaceOptions(), "Ozon"))
	assert.False(t, IsOption(MarketplaceOptions(), "ozon"))
}
