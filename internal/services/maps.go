package services

import "net/url"

const (
	mapsSearchBase     = "https://www.google.com/maps/search/"
	mapsDirectionsBase = "https://www.google.com/maps/dir/"
)

// SearchURL links to a map search for name, qualified by location when known.
func SearchURL(name, location string) string {
	query := name
	if location != "" {
		query = name + ", " + location
	}
	return mapsSearchBase + "?api=1&query=" + url.QueryEscape(query)
}

// DirectionsURL links to route planning from origin to destination.
// Parameters keep the order api, origin, destination.
func DirectionsURL(origin, destination string) string {
	return mapsDirectionsBase + "?api=1&origin=" + url.QueryEscape(origin) +
		"&destination=" + url.QueryEscape(destination)
}
