package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/landmark-guide/internal/models"
	"github.com/rahul4469/landmark-guide/internal/services"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold with parenthetical", "**Eiffel Tower** (Paris)", "Eiffel Tower"},
		{"hyphen qualifier", "Taj Mahal - Agra", "Taj Mahal"},
		{"surrounding whitespace", "   Colosseum  ", "Colosseum"},
		{"single asterisks", "*Big Ben*", "Big Ben"},
		{"plain", "Agra, India", "Agra, India"},
		{"empty", "", ""},
		{"leading hyphen", "- Agra Fort", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.Normalize(tt.in))
		})
	}
}

const tajDescription = `**Name:** Taj Mahal (Crown of the Palace)
**Location:** Agra, India
**Historical significance:** Built by Mughal emperor Shah Jahan.
**Dimensions:** 73 m tall.
**Nearby places:** Agra Fort, Mehtab Bagh, Itmad-ud-Daulah's Tomb, Fatehpur Sikri, Jama Masjid, Akbar's Tomb`

func TestExtractFields_labelledText(t *testing.T) {
	f := services.ExtractFields(tajDescription)

	assert.Equal(t, "Taj Mahal", f.Name)
	require.NotNil(t, f.Location)
	assert.Equal(t, "Agra, India", *f.Location)
	assert.Equal(t, []string{"Agra Fort", "Mehtab Bagh", "Itmad", "Fatehpur Sikri", "Jama Masjid"}, f.NearbyPlaces)
}

func TestExtractFields_caseInsensitiveLabels(t *testing.T) {
	f := services.ExtractFields("NAME: Colosseum\nlocation:   Rome, Italy\nNEARBY PLACES\nRoman Forum\nPalatine Hill")

	assert.Equal(t, "Colosseum", f.Name)
	require.NotNil(t, f.Location)
	assert.Equal(t, "Rome, Italy", *f.Location)
	assert.Equal(t, []string{"Roman Forum", "Palatine Hill"}, f.NearbyPlaces)
}

func TestExtractFields_missingLabels(t *testing.T) {
	f := services.ExtractFields("I could not recognise this picture.")

	assert.Equal(t, models.UnknownValue, f.Name)
	assert.Nil(t, f.Location, "a missing location is absent, not a placeholder")
	assert.NotNil(t, f.NearbyPlaces)
	assert.Empty(t, f.NearbyPlaces)
}

func TestExtractFields_nearbySkipsLabelLines(t *testing.T) {
	text := "Name: Big Ben\nNearby places:\nWestminster Abbey\n\nNote: all within walking distance\nLondon Eye"

	f := services.ExtractFields(text)

	assert.Equal(t, []string{"Westminster Abbey", "London Eye"}, f.NearbyPlaces)
}

func TestExtractFields_capsAtFiveInOrder(t *testing.T) {
	f := services.ExtractFields("Nearby places: A, B, C, D, E, F, G")

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, f.NearbyPlaces)
}
