package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMetadataStore struct {
	loc   *LatLng
	err   error
	calls int
}

func (s *stubMetadataStore) Find(_ context.Context, _ string) ([]FileRef, error) {
	return nil, errors.New("not used")
}

func (s *stubMetadataStore) Download(_ context.Context, _ string) ([]byte, error) {
	return nil, errors.New("not used")
}

func (s *stubMetadataStore) ImageLocation(_ context.Context, _ string) (*LatLng, error) {
	s.calls++
	return s.loc, s.err
}

func TestGeoResolver_NoLocation(t *testing.T) {
	store := &stubMetadataStore{}
	r := NewGeoResolver(store, "", "test-key")

	geo, err := r.Resolve(context.Background(), "file-1")
	require.NoError(t, err)
	assert.False(t, geo.Present)
	assert.Empty(t, geo.MapURL)
	assert.Equal(t, 1, store.calls)
}

func TestGeoResolver_LocationPresent(t *testing.T) {
	store := &stubMetadataStore{loc: &LatLng{Latitude: 57.64911, Longitude: 10.40744}}
	r := NewGeoResolver(store, "https://maps.example/staticmap", "test-key")

	geo, err := r.Resolve(context.Background(), "file-1")
	require.NoError(t, err)
	assert.True(t, geo.Present)
	assert.Equal(t,
		"https://maps.example/staticmap?size=480x480&markers=57.64911,10.40744&key=test-key",
		geo.MapURL)
}

func TestGeoResolver_DefaultEndpoint(t *testing.T) {
	store := &stubMetadataStore{loc: &LatLng{Latitude: 1, Longitude: 2}}
	r := NewGeoResolver(store, "", "k")

	geo, err := r.Resolve(context.Background(), "file-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultMapsEndpoint+"?size=480x480&markers=1,2&key=k", geo.MapURL)
}

func TestGeoResolver_TransportError(t *testing.T) {
	store := &stubMetadataStore{err: errors.New("boom")}
	r := NewGeoResolver(store, "", "k")

	_, err := r.Resolve(context.Background(), "file-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
