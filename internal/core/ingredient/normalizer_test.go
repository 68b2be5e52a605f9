package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Tomatoes", "tomatoes"},
		{"quantity and descriptors", "1 cup Fresh Basil Leaves (chopped)", "basil leaves"},
		{"vulgar fraction and unit", "  ½ tsp. ground cumin ", "cumin"},
		{"accents", "Jalapeño", "jalapeno"},
		{"filler words", "salt and pepper to taste", "salt pepper"},
		{"apostrophe", "Baker's yeast", "bakers yeast"},
		{"hyphen", "2 cups all-purpose flour", "all purpose flour"},
		{"count unit kept", "1 can tomatoes", "can tomatoes"},
		{"empty", "", ""},
		{"punctuation only", "!!! 123 -- ,,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tables.Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tables := MustDefaultTables()
	inputs := []string{
		"2 1/2 cups Crème Fraîche",
		"İstanbul spice mix",
		"3 large eggs, beaten",
		"1 (14 oz) can diced tomatoes",
		"Extra-virgin olive oil",
		"",
	}
	for _, in := range inputs {
		once := tables.Normalize(in)
		assert.Equal(t, once, tables.Normalize(once), "input %q", in)
	}
}

func TestNewNormalizerCustomWords(t *testing.T) {
	n := NewNormalizer([]string{"handful"}, []string{"heaping"})
	assert.Equal(t, "spinach", n.Normalize("2 heaping handful spinach"))
	assert.Equal(t, "cup rice", n.Normalize("1 cup rice"))
}
