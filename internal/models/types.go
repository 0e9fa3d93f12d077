package models

import "time"

// UnknownValue is the placeholder used when a labelled field is missing from
// the model's answer or when a destination has no country segment.
const UnknownValue = "Unknown"

// Fields are the structured values pulled out of a free-text description.
type Fields struct {
	Name string
	// Location is nil when the description carried no "Location:" line.
	Location     *string
	NearbyPlaces []string
}

// DescriptionResult is produced once per identification request.
type DescriptionResult struct {
	// RawText is the English answer the fields were extracted from.
	RawText string `json:"raw_text"`
	// Text is what the user sees: RawText, or its translation.
	Text         string   `json:"text"`
	Language     string   `json:"language"`
	LandmarkName string   `json:"landmark_name"`
	Location     *string  `json:"location,omitempty"`
	NearbyPlaces []string `json:"nearby_places"`
}

// HasLocation reports whether the landmark location was identified.
func (d *DescriptionResult) HasLocation() bool {
	return d != nil && d.Location != nil && *d.Location != ""
}

// LocationString returns the location or "" when absent.
func (d *DescriptionResult) LocationString() string {
	if d == nil || d.Location == nil {
		return ""
	}
	return *d.Location
}

// FullLocation joins the landmark name with its location when known.
func (d *DescriptionResult) FullLocation() string {
	if d.HasLocation() {
		return d.LandmarkName + ", " + *d.Location
	}
	return d.LandmarkName
}

// TripRequest is built fresh from the form for every itinerary request.
type TripRequest struct {
	Origin              string
	DestinationLocation string
	LandmarkName        string
	NearbyPlaces        []string
	NumDays             int
}

// Itinerary is the formatted day-by-day plan.
type Itinerary struct {
	Text string `json:"text"`
}

// UploadedImage is the photo submitted with the identify form.
type UploadedImage struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// PlaceLink pairs a place with its reference links. WikiURL is empty when
// the encyclopedia has no page for the place.
type PlaceLink struct {
	Name    string `json:"name"`
	WikiURL string `json:"wiki_url,omitempty"`
	MapsURL string `json:"maps_url"`
}

// LandmarkData is everything shown after a successful identification.
type LandmarkData struct {
	Image        UploadedImage      `json:"image"`
	Description  *DescriptionResult `json:"description"`
	WikiURL      string             `json:"wiki_url,omitempty"`
	MapsURL      string             `json:"maps_url"`
	Nearby       []PlaceLink        `json:"nearby"`
	NearbyLabel  string             `json:"nearby_label"`
	LanguageCode string             `json:"language_code"`
}

// Default form values for a fresh session.
const (
	DefaultOrigin  = "Your location here"
	DefaultNumDays = 5
	MinNumDays     = 1
	MaxNumDays     = 14
)

// SessionState is the per-browser state carried across interactions.
type SessionState struct {
	Landmark  *LandmarkData `json:"landmark,omitempty"`
	Itinerary string        `json:"itinerary,omitempty"`
	Origin    string        `json:"origin"`
	NumDays   int           `json:"num_days"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSessionState returns the empty state a session starts with.
func NewSessionState() *SessionState {
	return &SessionState{
		Origin:  DefaultOrigin,
		NumDays: DefaultNumDays,
	}
}

// ResetLandmark drops everything derived from the previous identification.
func (s *SessionState) ResetLandmark() {
	s.Landmark = nil
	s.Itinerary = ""
}
