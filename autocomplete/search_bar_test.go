package autocomplete

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"weatherwise/logger"
	"weatherwise/models"
	"weatherwise/testutils"
)

func TestSearchBar_BlankQueryMakesNoCall(t *testing.T) {
	geocoder := &testutils.MockGeocoder{}
	bar := NewSearchBar(geocoder, 5, logger.Discard())

	for _, q := range []string{"", "   ", "\t"} {
		suggestions, err := bar.Change(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	}

	geocoder.AssertNotCalled(t, "Direct", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchBar_Change(t *testing.T) {
	geocoder := &testutils.MockGeocoder{}
	geocoder.On("Direct", mock.Anything, "Par", 5).Return([]models.GeoLocation{
		{Name: "Paris", Country: "FR"},
		{Name: "Paris", State: "Texas", Country: "US"},
	}, nil)

	bar := NewSearchBar(geocoder, 0, logger.Discard())

	suggestions, err := bar.Change(context.Background(), "Par")
	require.NoError(t, err)
	assert.Equal(t, []models.CitySuggestion{
		{Name: "Paris", Country: "FR"},
		{Name: "Paris", State: "Texas", Country: "US"},
	}, suggestions)
	assert.Equal(t, suggestions, bar.Suggestions())
	assert.Equal(t, "Par", bar.Query())

	geocoder.AssertExpectations(t)
}

func TestSearchBar_BlankAfterResultsClears(t *testing.T) {
	geocoder := &testutils.MockGeocoder{}
	geocoder.On("Direct", mock.Anything, "Cal", 5).Return([]models.GeoLocation{{Name: "Calgary", Country: "CA"}}, nil)
	bar := NewSearchBar(geocoder, 5, logger.Discard())

	_, err := bar.Change(context.Background(), "Cal")
	require.NoError(t, err)
	require.Len(t, bar.Suggestions(), 1)

	_, err = bar.Change(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, bar.Suggestions())
	geocoder.AssertNumberOfCalls(t, "Direct", 1)
}

func TestSearchBar_LookupErrorKeepsPreviousList(t *testing.T) {
	geocoder := &testutils.MockGeocoder{}
	geocoder.On("Direct", mock.Anything, "Cal", 5).Return([]models.GeoLocation{{Name: "Calgary", Country: "CA"}}, nil)
	geocoder.On("Direct", mock.Anything, "Calg", 5).Return(nil, errors.New("network down"))
	bar := NewSearchBar(geocoder, 5, logger.Discard())

	_, err := bar.Change(context.Background(), "Cal")
	require.NoError(t, err)

	_, err = bar.Change(context.Background(), "Calg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
	assert.Equal(t, []models.CitySuggestion{{Name: "Calgary", Country: "CA"}}, bar.Suggestions())
}

// blockingGeocoder holds the first lookup until released
type blockingGeocoder struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGeocoder) Direct(ctx context.Context, query string, limit int) ([]models.GeoLocation, error) {
	if query == "Lon" {
		close(g.started)
		<-g.release
		return []models.GeoLocation{{Name: "Long Beach", State: "California", Country: "US"}}, nil
	}
	return []models.GeoLocation{{Name: "London", Country: "GB"}}, nil
}

func TestSearchBar_StaleResponseDiscarded(t *testing.T) {
	geocoder := &blockingGeocoder{started: make(chan struct{}), release: make(chan struct{})}
	bar := NewSearchBar(geocoder, 5, logger.Discard())

	errCh := make(chan error, 1)
	go func() {
		_, err := bar.Change(context.Background(), "Lon")
		errCh <- err
	}()

	select {
	case <-geocoder.started:
	case <-time.After(time.Second):
		t.Fatal("first lookup never started")
	}

	latest, err := bar.Change(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, []models.CitySuggestion{{Name: "London", Country: "GB"}}, latest)

	close(geocoder.release)
	assert.ErrorIs(t, <-errCh, ErrStale)

	assert.Equal(t, []models.CitySuggestion{{Name: "London", Country: "GB"}}, bar.Suggestions())
	assert.Equal(t, "London", bar.Query())
}

func TestSearchBar_Select(t *testing.T) {
	geocoder := &testutils.MockGeocoder{}
	geocoder.On("Direct", mock.Anything, "Cal", 5).Return([]models.GeoLocation{{Name: "Calgary", State: "Alberta", Country: "CA"}}, nil)
	bar := NewSearchBar(geocoder, 5, logger.Discard())

	_, err := bar.Change(context.Background(), "Cal")
	require.NoError(t, err)

	label, err := bar.Select(models.CitySuggestion{Name: "Calgary", State: "Alberta", Country: "CA"})
	require.NoError(t, err)
	assert.Equal(t, "Calgary, Alberta, CA", label)
	assert.Empty(t, bar.Query())
	assert.Empty(t, bar.Suggestions())

	label, err = bar.Select(models.CitySuggestion{Name: "Paris", Country: "FR"})
	require.NoError(t, err)
	assert.Equal(t, "Paris, FR", label)
}

func TestSearchBar_SelectMalformed(t *testing.T) {
	geocoder := &testutils.MockGeocoder{}
	geocoder.On("Direct", mock.Anything, "Cal", 5).Return([]models.GeoLocation{{Name: "Calgary", Country: "CA"}}, nil)
	bar := NewSearchBar(geocoder, 5, logger.Discard())

	_, err := bar.Change(context.Background(), "Cal")
	require.NoError(t, err)

	_, err = bar.Select(models.CitySuggestion{Name: "Calgary"})
	assert.ErrorIs(t, err, ErrMalformedSuggestion)

	_, err = bar.Select(models.CitySuggestion{Country: "CA"})
	assert.ErrorIs(t, err, ErrMalformedSuggestion)

	assert.Equal(t, "Cal", bar.Query())
	assert.Len(t, bar.Suggestions(), 1)
}

func TestSearchBar_Submit(t *testing.T) {
	bar := NewSearchBar(&testutils.MockGeocoder{}, 5, logger.Discard())

	_, err := bar.Submit()
	assert.ErrorIs(t, err, ErrEmptyQuery)

	bar.SetQuery("  ")
	_, err = bar.Submit()
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, "  ", bar.Query())

	bar.SetQuery("Edmonton")
	query, err := bar.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Edmonton", query)
	assert.Empty(t, bar.Query())
}
