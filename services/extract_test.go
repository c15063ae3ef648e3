package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name    string
		extract func(string) *float64
		title   string
		want    *float64
	}{
		{"bedrooms", ExtractBedrooms, "Home in Albany · 3 bedrooms · 4 beds", float64Ptr(3)},
		{"bedrooms no space", ExtractBedrooms, "2bedroom flat", float64Ptr(2)},
		{"bedrooms studio", ExtractBedrooms, "Studio · 1 bed · 1 bath", nil},
		{"bathrooms fractional", ExtractBathrooms, "Condo · 1.5 baths", float64Ptr(1.5)},
		{"bathrooms integer", ExtractBathrooms, "Condo · 2 baths", float64Ptr(2)},
		{"bathrooms shared", ExtractBathrooms, "Room · 1 shared bath", nil},
		{"bathrooms half-bath", ExtractBathrooms, "Room · Half-bath", nil},
		{"beds", ExtractBeds, "Loft · 4 beds", float64Ptr(4)},
		{"beds from bedrooms", ExtractBeds, "Home · 2 bedrooms · 3 beds", float64Ptr(2)},
		{"shared", ExtractSharedBath, "Room · 1 shared bath", float64Ptr(1)},
		{"shared fractional", ExtractSharedBath, "Room · 1.5 shared baths", float64Ptr(5)},
		{"shared without digit", ExtractSharedBath, "Room with shared bathroom", nil},
		{"empty", ExtractBeds, "", nil},
		{"fullwidth digit", ExtractBedrooms, "２ bedroom x", float64Ptr(2)},
		{"arabic-indic digit", ExtractBeds, "Flat · \u0663 beds", float64Ptr(3)},
		{"no-break space", ExtractBathrooms, "Condo · 1.5\u00a0baths", float64Ptr(1.5)},
		{"ideographic space", ExtractSharedBath, "Room · 1\u3000shared bath", float64Ptr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.extract(tt.title)
			if tt.want == nil {
				assert.Nil(t, got, "%q", tt.title)
				return
			}
			require.NotNil(t, got, "%q", tt.title)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestExtractStars(t *testing.T) {
	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{"Home in Albany · ★4.85 · 2 bedrooms", "4.85", true},
		{"Guest suite · ★5.0", "5.0", true},
		{"Cabin ★New · 1 bed", "", false},
		{"Cabin · 4.9 stars", "", false},
		// Non-ASCII digits are returned as written.
		{"Villa · ★４.９", "４.９", true},
		// The glyph decoded with the wrong charset never matches.
		{"Home · â˜…4.85", "", false},
	}

	for _, tt := range tests {
		got := ExtractStars(tt.title)
		if !tt.ok {
			assert.Nil(t, got, "ExtractStars(%q)", tt.title)
			continue
		}
		require.NotNil(t, got, "ExtractStars(%q)", tt.title)
		assert.Equal(t, tt.want, *got)
	}
}

func TestExtractAttributesExample(t *testing.T) {
	a := ExtractAttributes("Cozy 2 bedroom, 1.5 bath, shared bathroom ★4.5")

	require.NotNil(t, a.Bedrooms)
	assert.Equal(t, 2.0, *a.Bedrooms)
	require.NotNil(t, a.Bathrooms)
	assert.Equal(t, 1.5, *a.Bathrooms)
	require.NotNil(t, a.Beds)
	assert.Equal(t, 2.0, *a.Beds)
	assert.Nil(t, a.SharedBath, "no digit directly before \"shared\"")
	require.NotNil(t, a.Stars)
	assert.Equal(t, "4.5", *a.Stars)
}

func TestExtractAttributesIsPureFunctionOfTitle(t *testing.T) {
	title := "Rental unit · ★4.72 · 1 bedroom · 1 bed · 1 shared bath"
	assert.Equal(t, ExtractAttributes(title), ExtractAttributes(title))
}

func TestASCIIDigits(t *testing.T) {
	assert.Equal(t, "12.5", asciiDigits("１２.５"))
	assert.Equal(t, "39", asciiDigits("\u0663\u0669"))
	assert.Equal(t, "7", asciiDigits("\U0001D7D5"), "mathematical bold digit seven")
	assert.Equal(t, "abc", asciiDigits("abc"))
}
