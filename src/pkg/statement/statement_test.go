package statement

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesKeepDocumentOrder(t *testing.T) {
	var categories Categories
	err := json.Unmarshal([]byte(`{"UnknownCat": 30, "Food & Dining": 50, "Other": 0}`), &categories)
	require.NoError(t, err)

	require.Len(t, categories, 3)
	assert.Equal(t, "UnknownCat", categories[0].Name)
	assert.Equal(t, "Food & Dining", categories[1].Name)
	assert.Equal(t, "Other", categories[2].Name)
	assert.True(t, categories[1].Amount.Equal(decimal.NewFromInt(50)))
}

func TestCategoriesRepeatedKeyKeepsFirstPosition(t *testing.T) {
	var categories Categories
	err := json.Unmarshal([]byte(`{"A": 1, "B": 2, "A": 3}`), &categories)
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, "A", categories[0].Name)
	assert.True(t, categories[0].Amount.Equal(decimal.NewFromInt(3)))
}

func TestCategoriesRejectNonObject(t *testing.T) {
	var categories Categories
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &categories))
	assert.Error(t, json.Unmarshal([]byte(`{"A": "x"}`), &categories))
}

func TestCategoriesNullAndMarshal(t *testing.T) {
	var categories Categories
	require.NoError(t, json.Unmarshal([]byte(`null`), &categories))
	assert.Nil(t, categories)

	encoded, err := json.Marshal(Categories(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(encoded))

	ordered := Categories{
		{Name: "Shopping", Amount: decimal.RequireFromString("100.5")},
		{Name: "Food & Dining", Amount: decimal.RequireFromString("8.6")},
	}
	raw, err := ordered.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"Shopping":100.5,"Food & Dining":8.6}`, string(raw))

	// encoding/json HTML-escapes marshaler output
	encoded, err = json.Marshal(ordered)
	require.NoError(t, err)
	assert.Equal(t, `{"Shopping":100.5,"Food \u0026 Dining":8.6}`, string(encoded))

	var decoded Categories
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Shopping", decoded[0].Name)
	assert.Equal(t, "Food & Dining", decoded[1].Name)
	assert.True(t, decoded[1].Amount.Equal(decimal.RequireFromString("8.6")))
}

func TestCategoriesMarshalKeepsSpecialCharactersInKeys(t *testing.T) {
	encoded, err := Categories{
		{Name: `Bills <"Home">`, Amount: decimal.NewFromInt(1)},
	}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"Bills <\"Home\">":1}`, string(encoded))
}

func TestCategoriesTotalAndPositive(t *testing.T) {
	categories := Categories{
		{Name: "A", Amount: decimal.NewFromInt(50)},
		{Name: "B", Amount: decimal.Zero},
		{Name: "C", Amount: decimal.NewFromInt(30)},
	}
	assert.True(t, categories.Total().Equal(decimal.NewFromInt(80)))

	positive := categories.Positive()
	require.Len(t, positive, 2)
	assert.Equal(t, "C", positive[1].Name)
	assert.Len(t, categories, 3)

	amount, ok := categories.Get("C")
	assert.True(t, ok)
	assert.True(t, amount.Equal(decimal.NewFromInt(30)))
	_, ok = categories.Get("missing")
	assert.False(t, ok)
}

func TestLoadFromFile(t *testing.T) {
	result, e := LoadFromFile(filepath.Join("testdata", "result.json"))
	require.Nil(t, e)

	assert.True(t, result.Summary.StartBalance.Equal(decimal.RequireFromString("2367.20")))
	assert.True(t, result.Summary.NetChange().Equal(decimal.RequireFromString("-128.15")))
	require.Len(t, result.Transactions, 4)
	assert.Equal(t, "PRIME SUPERMARKET", result.Transactions[0].Description)
	assert.Equal(t, "Other", result.Transactions[2].CategoryName())
	require.Len(t, result.Categories, 10)
	assert.Equal(t, "Food & Dining", result.Categories[0].Name)
	assert.True(t, result.HasReport())
}

func TestDecodeMissingCollections(t *testing.T) {
	result, e := Decode(strings.NewReader(`{"summary": {"start_balance": 1}}`))
	require.Nil(t, e)
	assert.Empty(t, result.Transactions)
	assert.Empty(t, result.Categories)
	assert.False(t, result.HasReport())
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, e := Decode(strings.NewReader(`{"summary": `))
	assert.NotNil(t, e)
}
