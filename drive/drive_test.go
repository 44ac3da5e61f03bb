package drive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gdrive.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return NewStore(svc)
}

func TestFind(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "name='photo.jpg'", r.URL.Query().Get("q"))
		assert.Contains(t, r.URL.Query().Get("fields"), "modifiedTime")
		fmt.Fprint(w, `{"files":[
			{"id":"id-1","name":"photo.jpg","mimeType":"image/jpeg","modifiedTime":"2024-06-01T12:00:00.000Z"},
			{"id":"id-2","name":"photo.jpg","mimeType":"image/png","modifiedTime":"2023-01-01T00:00:00.000Z"}
		]}`)
	})

	refs, err := store.Find(context.Background(), "photo.jpg")
	require.NoError(t, err)
	require.Len(t, refs, 2)

	// Store order is preserved: the first entry stays first.
	assert.Equal(t, "id-1", refs[0].ID)
	assert.Equal(t, "photo.jpg", refs[0].Name)
	assert.Equal(t, "image/jpeg", refs[0].MIMEType)
	assert.Equal(t, "2024-06-01T12:00:00.000Z", refs[0].ModifiedTime)
	assert.Equal(t, "id-2", refs[1].ID)
}

func TestFind_NoMatches(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"files":[]}`)
	})

	refs, err := store.Find(context.Background(), "missing.jpg")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestFind_ServiceError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":500}}`, http.StatusInternalServerError)
	})

	_, err := store.Find(context.Background(), "photo.jpg")
	require.Error(t, err)
}

func TestDownload(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/id-1", r.URL.Path)
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		_, _ = w.Write([]byte("binary-content"))
	})

	data, err := store.Download(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("binary-content"), data)
}

func TestImageLocation_Present(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/files/id-1"))
		assert.Contains(t, r.URL.Query().Get("fields"), "imageMediaMetadata")
		fmt.Fprint(w, `{"imageMediaMetadata":{"location":{"latitude":57.64911,"longitude":10.40744}}}`)
	})

	loc, err := store.ImageLocation(context.Background(), "id-1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 57.64911, loc.Latitude)
	assert.Equal(t, 10.40744, loc.Longitude)
}

func TestImageLocation_NoLocation(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"imageMediaMetadata":{"width":640,"height":480}}`)
	})

	loc, err := store.ImageLocation(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestImageLocation_NoImageMetadata(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	loc, err := store.ImageLocation(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Nil(t, loc)
}
