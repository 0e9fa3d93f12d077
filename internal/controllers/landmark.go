package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/csrf"

	appctx "github.com/rahul4469/landmark-guide/context"
	"github.com/rahul4469/landmark-guide/internal/middleware"
	"github.com/rahul4469/landmark-guide/internal/models"
	"github.com/rahul4469/landmark-guide/internal/services"
	"github.com/rahul4469/landmark-guide/internal/views"
)

// LinkLookupTimeout bounds all encyclopedia lookups for one identification.
const LinkLookupTimeout = 15 * time.Second

// NoLocationMessage replaces the itinerary when the landmark location is unknown.
const NoLocationMessage = "Unable to plan trip: Landmark location not identified."

// Describer identifies the landmark in a photo.
type Describer interface {
	Describe(ctx context.Context, img models.UploadedImage, language string) (*models.DescriptionResult, error)
}

// WikiLookup resolves a place name to its encyclopedia page.
type WikiLookup interface {
	PageURL(ctx context.Context, title string) (string, error)
}

// Speaker turns text into MP3 audio.
type Speaker interface {
	Synthesize(ctx context.Context, text, localeCode string) ([]byte, error)
}

// Planner builds trip itineraries.
type Planner interface {
	Generate(req models.TripRequest) models.Itinerary
}

// LandmarkServices groups the collaborators of LandmarkController.
type LandmarkServices struct {
	Describer Describer
	Wiki      WikiLookup
	Speech    Speaker
	Planner   Planner
}

// LandmarkTemplates holds the templates for the landmark pages.
type LandmarkTemplates struct {
	Home *views.Template
}

// LandmarkController handles identification, trip planning and media.
type LandmarkController struct {
	services       LandmarkServices
	sessions       models.SessionStore
	languages      *services.LanguageCatalog
	templates      LandmarkTemplates
	cookieName     string
	maxUploadBytes int64
	linkTimeout    time.Duration
	log            *slog.Logger
}

// NewLandmarkController creates a new LandmarkController.
func NewLandmarkController(
	svc LandmarkServices,
	sessions models.SessionStore,
	languages *services.LanguageCatalog,
	templates LandmarkTemplates,
	cookieName string,
	maxUploadBytes int64,
	log *slog.Logger,
) *LandmarkController {
	return &LandmarkController{
		services:       svc,
		sessions:       sessions,
		languages:      languages,
		templates:      templates,
		cookieName:     cookieName,
		maxUploadBytes: maxUploadBytes,
		linkTimeout:    LinkLookupTimeout,
		log:            log,
	}
}

// HomeData holds data for the home page template.
type HomeData struct {
	Languages []string
	Language  string
	Origin    string
	NumDays   int
	MinDays   int
	MaxDays   int
	Landmark  *LandmarkView
	Itinerary string
}

// LandmarkView is an identified landmark prepared for display, with the
// description split around the photo.
type LandmarkView struct {
	Name              string
	DescriptionTop    string
	DescriptionBottom string
	WikiURL           string
	MapsURL           string
	NearbyLabel       string
	Nearby            []models.PlaceLink
}

// GetHome renders the page for the current session.
func (c *LandmarkController) GetHome(w http.ResponseWriter, r *http.Request) {
	c.renderHome(w, r, http.StatusOK, middleware.CurrentSession(r), "")
}

// PostIdentify handles the photo upload form.
func (c *LandmarkController) PostIdentify(w http.ResponseWriter, r *http.Request) {
	state := middleware.CurrentSession(r)

	// A new identification invalidates everything derived from the last
	// one, whether or not it succeeds
	state.ResetLandmark()

	img, language, status, err := c.readIdentifyForm(r)
	if err != nil {
		if !c.save(w, r, state) {
			return
		}
		c.renderHome(w, r, status, state, userMessage(err))
		return
	}

	desc, err := c.services.Describer.Describe(r.Context(), img, language.Name)
	if err != nil {
		c.log.WarnContext(r.Context(), "landmark description failed", "language", language.Name, "error", err)
		if !c.save(w, r, state) {
			return
		}
		c.renderHome(w, r, http.StatusBadGateway, state, "Error generating description. Please try again.")
		return
	}

	state.Landmark = c.buildLandmark(r.Context(), img, desc)
	if !c.save(w, r, state) {
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// readIdentifyForm validates the upload and language choice. The returned
// status is the response code to use when err is non-nil.
func (c *LandmarkController) readIdentifyForm(r *http.Request) (models.UploadedImage, services.Language, int, error) {
	var img models.UploadedImage

	if middleware.BodyTooLarge(r) {
		return img, services.Language{}, http.StatusRequestEntityTooLarge, c.tooLarge()
	}
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return img, services.Language{}, http.StatusRequestEntityTooLarge, c.tooLarge()
		}
		return img, services.Language{}, http.StatusBadRequest, models.FileError{Issue: "the form could not be read"}
	}

	languageName := r.FormValue("language")
	if languageName == "" {
		languageName = c.languages.Default
	}
	language, err := c.languages.Lookup(languageName)
	if err != nil {
		return img, services.Language{}, http.StatusUnprocessableEntity, err
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		return img, language, http.StatusUnprocessableEntity, models.FileError{Issue: "please choose a photo to upload"}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, c.maxUploadBytes+1))
	if err != nil {
		return img, language, http.StatusBadRequest, models.FileError{Issue: "the upload could not be read"}
	}
	if int64(len(data)) > c.maxUploadBytes {
		return img, language, http.StatusRequestEntityTooLarge, c.tooLarge()
	}

	mt := mimetype.Detect(data)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") {
		return img, language, http.StatusUnprocessableEntity, models.FileError{Issue: fmt.Sprintf("%s is not a JPG or PNG image", mt.String())}
	}

	img = models.UploadedImage{MIMEType: mt.String(), Data: data}
	return img, language, http.StatusOK, nil
}

func (c *LandmarkController) tooLarge() error {
	return models.FileError{Issue: fmt.Sprintf("photos are limited to %d MB", c.maxUploadBytes>>20)}
}

// buildLandmark gathers the reference links for the landmark and each
// nearby place. The lookups share one deadline; failures and lookups past
// it degrade to a missing link.
func (c *LandmarkController) buildLandmark(ctx context.Context, img models.UploadedImage, desc *models.DescriptionResult) *models.LandmarkData {
	ctx, cancel := context.WithTimeout(ctx, c.linkTimeout)
	defer cancel()

	language := c.languages.Resolve(desc.Language)
	location := desc.LocationString()

	data := &models.LandmarkData{
		Image:        img,
		Description:  desc,
		WikiURL:      c.wikiURL(ctx, desc.LandmarkName),
		MapsURL:      services.SearchURL(desc.LandmarkName, location),
		NearbyLabel:  language.NearbyLabel,
		LanguageCode: language.Code,
		Nearby:       make([]models.PlaceLink, 0, len(desc.NearbyPlaces)),
	}
	for _, place := range desc.NearbyPlaces {
		data.Nearby = append(data.Nearby, models.PlaceLink{
			Name:    place,
			WikiURL: c.wikiURL(ctx, place),
			MapsURL: services.SearchURL(place, location),
		})
	}
	return data
}

func (c *LandmarkController) wikiURL(ctx context.Context, title string) string {
	u, err := c.services.Wiki.PageURL(ctx, title)
	if err != nil {
		if !errors.Is(err, models.ErrPageNotFound) {
			c.log.WarnContext(ctx, "wikipedia lookup failed", "title", title, "error", err)
		}
		return ""
	}
	return u
}

// PostItinerary handles the trip planning form.
func (c *LandmarkController) PostItinerary(w http.ResponseWriter, r *http.Request) {
	state := middleware.CurrentSession(r)

	if err := r.ParseForm(); err != nil {
		c.renderHome(w, r, http.StatusBadRequest, state, "Invalid form data")
		return
	}

	numDays, err := strconv.Atoi(strings.TrimSpace(r.FormValue("num_days")))
	if err != nil || numDays < models.MinNumDays || numDays > models.MaxNumDays {
		c.renderHome(w, r, http.StatusUnprocessableEntity, state, userMessage(models.ErrInvalidDayCount))
		return
	}

	origin := strings.TrimSpace(r.FormValue("origin"))
	if origin == "" {
		origin = models.DefaultOrigin
	}
	state.Origin = origin
	state.NumDays = numDays

	if state.Landmark == nil || state.Landmark.Description == nil {
		c.renderHome(w, r, http.StatusConflict, state, userMessage(models.ErrNoLandmarkData))
		return
	}

	desc := state.Landmark.Description
	if desc.HasLocation() {
		state.Itinerary = c.services.Planner.Generate(models.TripRequest{
			Origin:              origin,
			DestinationLocation: desc.LocationString(),
			LandmarkName:        desc.LandmarkName,
			NearbyPlaces:        desc.NearbyPlaces,
			NumDays:             numDays,
		}).Text
	} else {
		state.Itinerary = NoLocationMessage
	}

	if !c.save(w, r, state) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetImage serves the uploaded photo of the current session.
func (c *LandmarkController) GetImage(w http.ResponseWriter, r *http.Request) {
	state := middleware.CurrentSession(r)
	if state.Landmark == nil || len(state.Landmark.Image.Data) == 0 {
		http.NotFound(w, r)
		return
	}

	img := state.Landmark.Image
	w.Header().Set("Content-Type", img.MIMEType)
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Write(img.Data)
}

// GetAudio narrates the displayed description in the session language.
func (c *LandmarkController) GetAudio(w http.ResponseWriter, r *http.Request) {
	state := middleware.CurrentSession(r)
	if state.Landmark == nil || state.Landmark.Description == nil || strings.TrimSpace(state.Landmark.Description.Text) == "" {
		http.NotFound(w, r)
		return
	}

	desc := state.Landmark.Description
	locale := c.languages.Resolve(desc.Language).VoiceLocale

	audio, err := c.services.Speech.Synthesize(r.Context(), desc.Text, locale)
	if err != nil {
		c.log.WarnContext(r.Context(), "speech synthesis failed", "locale", locale, "error", err)
		http.Error(w, "Audio is unavailable right now.", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Write(audio)
}

// CSRFFailure renders the page for form posts the CSRF check rejected. An
// oversized upload loses its token when the form parse hits the body cap,
// so it gets the size message rather than the expired-form one.
func (c *LandmarkController) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	state := middleware.CurrentSession(r)
	if middleware.BodyTooLarge(r) {
		c.renderHome(w, r, http.StatusRequestEntityTooLarge, state, userMessage(c.tooLarge()))
		return
	}
	c.log.WarnContext(r.Context(), "csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	c.renderHome(w, r, http.StatusForbidden, state, "Your form has expired. Please reload the page and try again.")
}

// PostReset forgets the session and starts over with a new cookie.
func (c *LandmarkController) PostReset(w http.ResponseWriter, r *http.Request) {
	if key := appctx.ContextGetSessionKey(r.Context()); key != "" {
		if err := c.sessions.Delete(r.Context(), key); err != nil {
			c.log.WarnContext(r.Context(), "session delete failed", "error", err)
		}
	}
	deleteCookie(w, c.cookieName)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// save persists state, rendering a 500 page when the store fails.
func (c *LandmarkController) save(w http.ResponseWriter, r *http.Request, state *models.SessionState) bool {
	key := appctx.ContextGetSessionKey(r.Context())
	if key == "" {
		return true
	}
	if err := c.sessions.Save(r.Context(), key, state); err != nil {
		c.log.ErrorContext(r.Context(), "session save failed", "error", err)
		c.renderHome(w, r, http.StatusInternalServerError, state, "Your session could not be saved. Please try again.")
		return false
	}
	return true
}

func (c *LandmarkController) renderHome(w http.ResponseWriter, r *http.Request, status int, state *models.SessionState, errMsg string) {
	home := HomeData{
		Languages: c.languages.Names(),
		Language:  c.languages.Default,
		Origin:    state.Origin,
		NumDays:   state.NumDays,
		MinDays:   models.MinNumDays,
		MaxDays:   models.MaxNumDays,
		Itinerary: state.Itinerary,
	}

	if lm := state.Landmark; lm != nil && lm.Description != nil {
		home.Language = lm.Description.Language
		top, bottom := SplitDescription(lm.Description.Text)
		home.Landmark = &LandmarkView{
			Name:              lm.Description.LandmarkName,
			DescriptionTop:    top,
			DescriptionBottom: bottom,
			WikiURL:           lm.WikiURL,
			MapsURL:           lm.MapsURL,
			NearbyLabel:       lm.NearbyLabel,
			Nearby:            lm.Nearby,
		}
	}

	data := &views.TemplateData{
		Title:       "Landmark Guide",
		Description: "Identify landmarks from photos and plan a trip",
		CSRFField:   csrf.TemplateField(r),
		Error:       errMsg,
		Data:        home,
	}
	c.templates.Home.ExecuteHTTPWithStatus(w, r, status, data)
}

// SplitDescription cuts text at its middle line so the photo can sit
// between the halves.
func SplitDescription(text string) (top, bottom string) {
	lines := strings.Split(text, "\n")
	mid := len(lines) / 2
	return strings.Join(lines[:mid], "\n"), strings.Join(lines[mid:], "\n")
}

// userMessage turns input errors into text for the page.
func userMessage(err error) string {
	var fe models.FileError
	switch {
	case errors.As(err, &fe):
		return "Invalid image: " + fe.Issue + "."
	case errors.Is(err, models.ErrUnsupportedLanguage):
		return "Please choose one of the listed languages."
	case errors.Is(err, models.ErrInvalidDayCount):
		return fmt.Sprintf("Number of days must be between %d and %d.", models.MinNumDays, models.MaxNumDays)
	case errors.Is(err, models.ErrNoLandmarkData):
		return "Identify a landmark before planning a trip."
	default:
		return "Something went wrong. Please try again."
	}
}
