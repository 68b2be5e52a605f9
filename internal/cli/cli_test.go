package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
recipes:
  - id: pancakes
    name: Pancakes
    cuisine: american
    difficulty: easy
    total_time_minutes: 20
    ingredients: ["1 1/2 cups flour", "2 eggs", "1 cup milk", "2 tbsp sugar"]
  - id: crepes
    name: Crepes
    cuisine: french
    difficulty: easy
    total_time_minutes: 25
    ingredients: ["1 cup flour", "3 eggs", "1 1/2 cups milk", "1 tbsp butter"]
  - id: salad
    name: Greek Salad
    cuisine: greek
    ingredients: ["2 tomatoes", "1 cucumber", "100g feta"]
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--catalog", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestMatchCommand(t *testing.T) {
	out, err := run(t, "match", "flour", "eggs", "milk", "sugar")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2)
	assert.Contains(t, lines[0], "MATCH")
	assert.Contains(t, lines[1], "Pancakes")
	assert.Contains(t, lines[1], "100.0%")
}

func TestMatchCommandJSON(t *testing.T) {
	out, err := run(t, "--json", "match", "--max", "1", "tomato", "cucumber")
	require.NoError(t, err)

	var result struct {
		Matches []struct {
			RecipeID string `json:"recipe_id"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "salad", result.Matches[0].RecipeID)
}

func TestSimilarCommand(t *testing.T) {
	out, err := run(t, "similar", "pancakes", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "crepes")
	assert.NotContains(t, out, "pancakes\n")

	_, err = run(t, "similar", "waffles")
	assert.Error(t, err)
}

func TestShopCommand(t *testing.T) {
	out, err := run(t, "shop", "pancakes", "crepes", "--pantry", "sugar")
	require.NoError(t, err)
	assert.Contains(t, out, "SHOPPING LIST")
	assert.Contains(t, out, "2.5 cups flour")
	assert.Contains(t, out, "Already in pantry: sugar")

	out, err = run(t, "shop", "salad", "--format", "csv", "--servings", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Category,Ingredient,Quantity,Unit"))
	assert.Contains(t, out, "tomatoes,4,,")
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "--servings", "3", "1/3 cup olive oil")
	require.NoError(t, err)
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "cup")
	assert.Contains(t, out, "olive oil")

	_, err = run(t, "parse", "--servings", "0", "1 egg")
	assert.Error(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, "analyze", "chicken", "rice")
	require.NoError(t, err)
	assert.Contains(t, out, "proteins: chicken")
	assert.Contains(t, out, "missing: vegetables")
}

func TestMissingCatalog(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--catalog", filepath.Join(t.TempDir(), "none.yaml"), "match", "egg"})
	assert.Error(t, cmd.Execute())
}
