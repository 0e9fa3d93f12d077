package services

import (
	"regexp"
	"strings"

	"github.com/rahul4469/landmark-guide/internal/models"
)

// MaxNearbyPlaces caps how many nearby places are kept from a description.
const MaxNearbyPlaces = 5

var (
	emphasisPattern = regexp.MustCompile(`[*]+`)
	qualifierStart  = regexp.MustCompile(`\(|-`)

	namePattern     = regexp.MustCompile(`(?i)Name:\s*(.*)`)
	locationPattern = regexp.MustCompile(`(?i)Location:\s*(.*)`)
	nearbyPattern   = regexp.MustCompile(`(?is)Nearby places:?\s*(.*)`)
	placeSeparator  = regexp.MustCompile(`,|\n`)
)

// Normalize reduces a free-text value to a bare noun phrase: emphasis
// markers are removed and everything from the first "(" or "-" is dropped.
//
//	Normalize("**Eiffel Tower** (Paris)") == "Eiffel Tower"
func Normalize(raw string) string {
	s := strings.TrimSpace(emphasisPattern.ReplaceAllString(raw, ""))
	if loc := qualifierStart.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}

// ExtractFields pulls the labelled Name, Location and Nearby places
// sections out of a model answer. A missing name becomes "Unknown", a
// missing location stays nil and a missing nearby section yields no places.
func ExtractFields(text string) models.Fields {
	fields := models.Fields{
		Name:         models.UnknownValue,
		NearbyPlaces: []string{},
	}

	if m := namePattern.FindStringSubmatch(text); m != nil {
		fields.Name = Normalize(m[1])
	}
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		loc := Normalize(m[1])
		fields.Location = &loc
	}
	fields.NearbyPlaces = extractNearbyPlaces(text)

	return fields
}

// extractNearbyPlaces treats everything after the "Nearby places" label as
// the list. Entries holding a colon are the start of another label and are
// skipped.
func extractNearbyPlaces(text string) []string {
	places := []string{}

	m := nearbyPattern.FindStringSubmatch(text)
	if m == nil {
		return places
	}

	for _, entry := range placeSeparator.Split(strings.TrimSpace(m[1]), -1) {
		if strings.TrimSpace(entry) == "" || strings.Contains(entry, ":") {
			continue
		}
		places = append(places, Normalize(entry))
		if len(places) == MaxNearbyPlaces {
			break
		}
	}
	return places
}
