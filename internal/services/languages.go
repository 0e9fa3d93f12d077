package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rahul4469/landmark-guide/internal/models"
)

//go:embed languages.yaml
var languagesYAML []byte

// Language is one entry of the language selector.
type Language struct {
	Name        string `yaml:"name"`
	Code        string `yaml:"code"`
	VoiceLocale string `yaml:"voice_locale"`
	NearbyLabel string `yaml:"nearby_label"`
}

// LanguageCatalog is the fixed list of supported languages, in display order.
type LanguageCatalog struct {
	Default   string     `yaml:"default"`
	Languages []Language `yaml:"languages"`

	byName map[string]Language
}

// LoadLanguageCatalog parses the embedded catalog.
func LoadLanguageCatalog() (*LanguageCatalog, error) {
	return ParseLanguageCatalog(languagesYAML)
}

// ParseLanguageCatalog parses a catalog document. The default language must
// be one of the listed languages.
func ParseLanguageCatalog(data []byte) (*LanguageCatalog, error) {
	var c LanguageCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse language catalog: %w", err)
	}
	c.byName = make(map[string]Language, len(c.Languages))
	for _, l := range c.Languages {
		c.byName[l.Name] = l
	}
	if _, ok := c.byName[c.Default]; !ok {
		return nil, fmt.Errorf("parse language catalog: default %q not listed", c.Default)
	}
	return &c, nil
}

// Names returns the language names in display order.
func (c *LanguageCatalog) Names() []string {
	names := make([]string, len(c.Languages))
	for i, l := range c.Languages {
		names[i] = l.Name
	}
	return names
}

// Lookup returns the named language or ErrUnsupportedLanguage.
func (c *LanguageCatalog) Lookup(name string) (Language, error) {
	l, ok := c.byName[name]
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", models.ErrUnsupportedLanguage, name)
	}
	return l, nil
}

// Resolve returns the named language, or the default for unknown names.
func (c *LanguageCatalog) Resolve(name string) Language {
	if l, ok := c.byName[name]; ok {
		return l
	}
	return c.byName[c.Default]
}

// IsDefault reports whether name is the catalog's default language, for
// which no translation is needed.
func (c *LanguageCatalog) IsDefault(name string) bool {
	return name == c.Default
}
