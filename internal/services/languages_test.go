package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/landmark-guide/internal/models"
	"github.com/rahul4469/landmark-guide/internal/services"
)

func TestLanguageCatalog_embedded(t *testing.T) {
	c, err := services.LoadLanguageCatalog()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"English", "Spanish", "French", "German", "Japanese", "Hindi", "Chinese"},
		c.Names())

	codes := map[string]string{}
	for _, name := range c.Names() {
		codes[name] = c.Resolve(name).Code
	}
	assert.Equal(t, map[string]string{
		"English": "en", "Spanish": "es", "French": "fr", "German": "de",
		"Japanese": "ja", "Hindi": "hi", "Chinese": "zh-CN",
	}, codes)
}

func TestLanguageCatalog_unknownFallsBackToEnglish(t *testing.T) {
	c, err := services.LoadLanguageCatalog()
	require.NoError(t, err)

	l := c.Resolve("Klingon")
	assert.Equal(t, "en", l.Code)
	assert.Equal(t, "Nearby Attractions:", l.NearbyLabel)

	_, err = c.Lookup("Klingon")
	require.ErrorIs(t, err, models.ErrUnsupportedLanguage)
}

func TestParseLanguageCatalog_defaultMustBeListed(t *testing.T) {
	_, err := services.ParseLanguageCatalog([]byte("default: Latin\nlanguages:\n  - name: English\n    code: en\n"))
	require.ErrorContains(t, err, "Latin")
}
