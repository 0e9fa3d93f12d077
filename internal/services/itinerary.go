package services

import (
	"fmt"
	"strings"

	"github.com/rahul4469/landmark-guide/internal/models"
)

// DefaultCheapestFlightDays is a placeholder, not fare data. It is shown
// as the cheapest days to fly until a real fare source replaces it.
const DefaultCheapestFlightDays = "Tuesday or Wednesday"

// ItineraryGenerator renders a day-by-day travel plan. Generate is a pure
// function of its TripRequest: no clock, randomness or I/O.
type ItineraryGenerator struct {
	CheapestFlightDays string
}

// NewItineraryGenerator returns a generator that recommends cheapestDays,
// falling back to DefaultCheapestFlightDays when empty.
func NewItineraryGenerator(cheapestDays string) *ItineraryGenerator {
	if strings.TrimSpace(cheapestDays) == "" {
		cheapestDays = DefaultCheapestFlightDays
	}
	return &ItineraryGenerator{CheapestFlightDays: cheapestDays}
}

// SplitDestination reads city and country positionally from a
// comma-separated location: the last segment is the country, the one
// before it the city. A single segment is the city with an unknown country.
// Trailing empty segments are dropped and an empty city or country reads
// as unknown, so "Paris," is Paris in an unknown country. Nothing is geocoded.
func SplitDestination(location string) (city, country string) {
	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	switch len(parts) {
	case 0:
		return "", models.UnknownValue
	case 1:
		return parts[0], models.UnknownValue
	}
	return orUnknown(parts[len(parts)-2]), orUnknown(parts[len(parts)-1])
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownValue
	}
	return s
}

// PartitionPlaces splits places into days contiguous groups whose sizes
// differ by at most one, earlier groups taking the remainder. Five days
// with two places gives one place each to days two and three; a plain
// floor(len/days) slice would give every day none.
func PartitionPlaces(places []string, days int) [][]string {
	if days <= 0 {
		return nil
	}
	groups := make([][]string, days)
	base, extra := len(places)/days, len(places)%days
	start := 0
	for i := range groups {
		size := base
		if i < extra {
			size++
		}
		groups[i] = places[start : start+size]
		start += size
	}
	return groups
}

// Generate builds the itinerary text for req. NumDays below 1 is treated as 1.
//
// Day 1 is arrival and the last day is departure. Nearby places are spread
// over the days in between with PartitionPlaces, so every place is visited
// and the earlier middle days carry any remainder: four days with three
// places puts two on day 2 and one on day 3. Day 2 is always the landmark
// day, its share of places going to the afternoon.
func (g *ItineraryGenerator) Generate(req models.TripRequest) models.Itinerary {
	numDays := req.NumDays
	if numDays < models.MinNumDays {
		numDays = models.MinNumDays
	}
	city, country := SplitDestination(req.DestinationLocation)
	landmark := req.LandmarkName
	cheapest := g.CheapestFlightDays

	var b strings.Builder

	fmt.Fprintf(&b, "**Trip Itinerary from %s to %s, %s, %s:**\n", req.Origin, landmark, city, country)
	fmt.Fprintf(&b, "- **Origin:** %s\n", req.Origin)
	fmt.Fprintf(&b, "- **Destination:** %s, %s, %s\n", landmark, city, country)
	fmt.Fprintf(&b, "- **Cheapest Days to Fly:** %s\n", cheapest)
	fmt.Fprintf(&b, "- **Number of Days:** %d\n", numDays)
	b.WriteString("- **Travel Tips:**\n")
	fmt.Fprintf(&b, "  - Book flights for %s to save on costs.\n", cheapest)
	fmt.Fprintf(&b, "  - Arrive early at %s to avoid crowds, ideally at sunrise.\n", landmark)
	fmt.Fprintf(&b, "  - Use local transport in %s (e.g., buses, metro, or taxis) for affordable travel.\n", city)

	b.WriteString("\n**Day-by-Day Plan:**\n")

	if numDays == 1 {
		writeSingleDay(&b, req.Origin, landmark, city, country)
	} else {
		middle := PartitionPlaces(req.NearbyPlaces, numDays-2)
		for day := 1; day <= numDays; day++ {
			switch {
			case day == 1:
				writeArrivalDay(&b, req.Origin, city, country)
			case day == numDays:
				writeDepartureDay(&b, day, req.Origin, city)
			case day == 2:
				writeLandmarkDay(&b, landmark, middle[0])
			default:
				writeNearbyDay(&b, day, landmark, city, middle[day-2])
			}
		}
	}

	destination := fmt.Sprintf("%s, %s, %s", landmark, city, country)
	fmt.Fprintf(&b, "\n- [Plan Your Route on Google Maps](%s)\n", DirectionsURL(req.Origin, destination))

	return models.Itinerary{Text: b.String()}
}

func writeArrivalDay(b *strings.Builder, origin, city, country string) {
	b.WriteString("- **Day 1: Travel and Initial Exploration**\n")
	fmt.Fprintf(b, "  - Fly from %s to %s, %s (arrive by midday if possible).\n", origin, city, country)
	fmt.Fprintf(b, "  - Check into your accommodation in %s.\n", city)
	fmt.Fprintf(b, "  - Spend the evening exploring local markets or cuisine in %s.\n", city)
}

func writeDepartureDay(b *strings.Builder, day int, origin, city string) {
	fmt.Fprintf(b, "- **Day %d: Final Exploration and Departure**\n", day)
	fmt.Fprintf(b, "  - Visit any remaining nearby attractions or do some souvenir shopping in %s.\n", city)
	fmt.Fprintf(b, "  - Depart from %s back to %s.\n", city, origin)
}

func writeLandmarkDay(b *strings.Builder, landmark string, places []string) {
	fmt.Fprintf(b, "- **Day 2: Visit %s**\n", landmark)
	fmt.Fprintf(b, "  - Spend the morning at %s, exploring its history and architecture.\n", landmark)
	b.WriteString("  - Take a guided tour if available, or hire a local guide for insights.\n")
	if len(places) > 0 {
		fmt.Fprintf(b, "  - In the afternoon, visit nearby attractions: %s.\n", strings.Join(places, ", "))
	}
}

func writeNearbyDay(b *strings.Builder, day int, landmark, city string, places []string) {
	fmt.Fprintf(b, "- **Day %d: Explore Nearby Attractions**\n", day)
	if len(places) > 0 {
		fmt.Fprintf(b, "  - Visit %s.\n", strings.Join(places, ", "))
		b.WriteString("  - Enjoy local activities (e.g., sightseeing, photography, or cultural experiences).\n")
		return
	}
	fmt.Fprintf(b, "  - Explore more of %s, or revisit %s at a different time of day (e.g., sunset).\n", city, landmark)
}

// writeSingleDay covers a one-day trip: arrival, the landmark and departure
// all happen on Day 1.
func writeSingleDay(b *strings.Builder, origin, landmark, city, country string) {
	fmt.Fprintf(b, "- **Day 1: Arrive, Visit %s and Depart**\n", landmark)
	fmt.Fprintf(b, "  - Take an early flight from %s to %s, %s.\n", origin, city, country)
	fmt.Fprintf(b, "  - Head straight to %s and spend the day exploring its history and architecture.\n", landmark)
	fmt.Fprintf(b, "  - Depart from %s back to %s in the evening.\n", city, origin)
}
