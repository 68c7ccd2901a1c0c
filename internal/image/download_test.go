package imagepkg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/casecard/internal/util"
)

func TestPhotoFetcher(t *testing.T) {
	photo := pngBytes(t, 8, 8, red)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photo.png":
			w.Write(photo)
		case "/text":
			w.Write([]byte("hello, this is not a picture"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ctx := context.Background()
	open := util.HostPolicy{AllowPrivate: true}

	got, err := NewPhotoFetcher(open, time.Second, 1<<20).Fetch(ctx, srv.URL+"/photo.png")
	require.NoError(t, err)
	assert.Equal(t, photo, got)

	_, err = NewPhotoFetcher(open, time.Second, 10).Fetch(ctx, srv.URL+"/photo.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	f := NewPhotoFetcher(open, time.Second, 1<<20)
	_, err = f.Fetch(ctx, srv.URL+"/missing")
	assert.ErrorContains(t, err, "404")

	_, err = f.Fetch(ctx, srv.URL+"/text")
	assert.ErrorContains(t, err, "content type")
}

func TestPhotoFetcherRefusesBlockedHosts(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(pngBytes(t, 4, 4, red))
	}))
	defer srv.Close()
	ctx := context.Background()

	_, err := NewPhotoFetcher(util.HostPolicy{}, time.Second, 1<<20).Fetch(ctx, srv.URL+"/photo.png")
	assert.ErrorIs(t, err, util.ErrBlockedHost)

	_, err = NewPhotoFetcher(util.HostPolicy{Allow: []string{"photos.example.org"}, AllowPrivate: true}, time.Second, 1<<20).Fetch(ctx, srv.URL+"/photo.png")
	assert.ErrorIs(t, err, util.ErrBlockedHost)
	assert.Zero(t, hits)
}

func TestPhotoFetcherChecksRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 4, 4, red))
	}))
	defer target.Close()
	tu, err := url.Parse(target.URL)
	require.NoError(t, err)

	redirect := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://localhost:"+tu.Port()+"/photo.png", http.StatusFound)
	}))
	defer redirect.Close()

	policy := util.HostPolicy{Allow: []string{"127.0.0.1"}, AllowPrivate: true}
	_, err = NewPhotoFetcher(policy, time.Second, 1<<20).Fetch(context.Background(), redirect.URL+"/photo.png")
	assert.ErrorIs(t, err, util.ErrBlockedHost)
}
