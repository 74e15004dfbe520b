package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line   string
		amount float64
		unit   Unit
		name   string
	}{
		{"1 1/2 oz. dry gin", 1.5, UnitOz, "dry gin"},
		{"to taste salt", 0, UnitToTaste, "salt"},
		{"juice of 1/2 lime", 0.5, UnitWhole, "lime (juiced)"},
		{"2 dashes angostura bitters", 2, UnitDash, "angostura bitters"},
		{"2 parts white rum", 2, UnitPart, "white rum"},
		{"1 part. lime juice", 1, UnitPart, "lime juice"},
		{".25 oz simple syrup", 0.25, UnitOz, "simple syrup"},
		{"1 .5 oz bourbon", 1.5, UnitOz, "bourbon"},
		{"2 or 3 dashes bitters", 2, UnitDash, "bitters"},
		{"1-2 tsp sugar", 1, UnitTsp, "sugar"},
		{"30 ml vodka", 30, UnitML, "vodka"},
		{"1 tbsp. of honey", 1, UnitTbsp, "honey"},
		{"2 dashes, peychaud's bitters", 2, UnitDash, "peychaud's bitters"},
		{"juice of 2 limes", 2, UnitWhole, "lime (juiced)"},
		{"2 limes", 2, UnitOther, "limes"},
		{"1 egg white", 1, UnitOther, "egg white"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m, ok := ParseLine(tt.line)
			require.True(t, ok)
			require.NotNil(t, m.Amount)
			assert.InDelta(t, tt.amount, *m.Amount, 1e-9)
			assert.Equal(t, tt.unit, m.Unit)
			assert.Equal(t, tt.name, m.Name)
		})
	}
}

func TestParseLineNoMeasurement(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"angostura bitters",
		"garnish with a cherry",
		"2 oz",
		"1/0 oz gin",
	} {
		t.Run(line, func(t *testing.T) {
			_, ok := ParseLine(line)
			assert.False(t, ok)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1", 1, true},
		{"1/2", 0.5, true},
		{"1 1/2", 1.5, true},
		{"2 3/4", 2.75, true},
		{".75", 0.75, true},
		{"1 .5", 1.5, true},
		{"2 or 3", 2, true},
		{"3-4", 3, true},
		{"1–2", 1, true},
		{"1/0", 0, false},
		{"abc", 0, false},
		{"-1", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseQuantity(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		amount float64
		unit   Unit
	}{
		{"2", 2, UnitWhole},
		{"1 1/2 oz", 1.5, UnitOz},
		{"2 dashes", 2, UnitDash},
		{"1 fl oz", 1, UnitOz},
		{"to taste", 0, UnitToTaste},
		{"2 parts", 2, UnitPart},
		{"3 cubes", 3, UnitOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			amount, unit, ok := ParseAmount(tt.in)
			require.True(t, ok)
			assert.InDelta(t, tt.amount, amount, 1e-9)
			assert.Equal(t, tt.unit, unit)
		})
	}

	_, _, ok := ParseAmount("a splash")
	assert.False(t, ok)
	_, _, ok = ParseAmount("")
	assert.False(t, ok)
}
