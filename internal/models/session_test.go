package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/landmark-guide/internal/crypto"
	"github.com/rahul4469/landmark-guide/internal/models"
)

func sampleState() *models.SessionState {
	loc := "Agra, India"
	s := models.NewSessionState()
	s.Origin = "New York, NY"
	s.NumDays = 3
	s.Itinerary = "plan"
	s.Landmark = &models.LandmarkData{
		Image: models.UploadedImage{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		Description: &models.DescriptionResult{
			RawText:      "Name: Taj Mahal",
			Text:         "Name: Taj Mahal",
			Language:     "English",
			LandmarkName: "Taj Mahal",
			Location:     &loc,
			NearbyPlaces: []string{"Agra Fort"},
		},
		MapsURL:      "https://www.google.com/maps/search/?api=1&query=Taj+Mahal",
		LanguageCode: "en",
	}
	return s
}

func TestNewSessionState_defaults(t *testing.T) {
	s := models.NewSessionState()

	assert.Equal(t, models.DefaultOrigin, s.Origin)
	assert.Equal(t, models.DefaultNumDays, s.NumDays)
	assert.Nil(t, s.Landmark)
	assert.Empty(t, s.Itinerary)
}

func TestSessionState_ResetLandmark(t *testing.T) {
	s := sampleState()
	s.ResetLandmark()

	assert.Nil(t, s.Landmark)
	assert.Empty(t, s.Itinerary)
	assert.Equal(t, "New York, NY", s.Origin, "form inputs survive a new identification")
}

func TestMemorySessionStore_roundTrip(t *testing.T) {
	store := models.NewMemorySessionStore(time.Hour, nil)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, models.ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, "k", sampleState()))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got.Landmark)
	assert.Equal(t, "Taj Mahal", got.Landmark.Description.LandmarkName)
	assert.Equal(t, "Agra, India", got.Landmark.Description.LocationString())
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got.Landmark.Image.Data)
	assert.Equal(t, 3, got.NumDays)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestMemorySessionStore_returnsCopies(t *testing.T) {
	store := models.NewMemorySessionStore(time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "k", sampleState()))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got.Origin = "mutated"

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "New York, NY", again.Origin)
}

func TestMemorySessionStore_sealed(t *testing.T) {
	enc, err := crypto.NewEncryptorFromSecret("test secret")
	require.NoError(t, err)
	store := models.NewMemorySessionStore(time.Hour, enc)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", sampleState()))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "Taj Mahal", got.Landmark.Description.LandmarkName)
}

func TestMemorySessionStore_expiry(t *testing.T) {
	store := models.NewMemorySessionStore(time.Minute, nil)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "k", sampleState()))

	store.SetClock(func() time.Time { return time.Now().Add(2 * time.Minute) })

	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, models.ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_delete(t *testing.T) {
	store := models.NewMemorySessionStore(time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "k", sampleState()))

	require.NoError(t, store.Delete(ctx, "k"))
	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestHashToken(t *testing.T) {
	token, err := models.NewToken(models.DefaultTokenLength)
	require.NoError(t, err)
	other, err := models.NewToken(models.DefaultTokenLength)
	require.NoError(t, err)

	assert.NotEqual(t, token, other)
	assert.Equal(t, models.HashToken(token), models.HashToken(token))
	assert.NotEqual(t, token, models.HashToken(token))
}

func TestDescriptionResult_location(t *testing.T) {
	var nilResult *models.DescriptionResult
	assert.False(t, nilResult.HasLocation())

	d := &models.DescriptionResult{LandmarkName: "Eiffel Tower"}
	assert.False(t, d.HasLocation())
	assert.Equal(t, "Eiffel Tower", d.FullLocation())

	loc := "Paris, France"
	d.Location = &loc
	assert.True(t, d.HasLocation())
	assert.Equal(t, "Eiffel Tower, Paris, France", d.FullLocation())
}
