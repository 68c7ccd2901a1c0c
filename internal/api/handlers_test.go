package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/youruser/casecard/internal/card"
	"github.com/youruser/casecard/internal/layout"
	"github.com/youruser/casecard/internal/util"
)

type HandlerSuite struct {
	suite.Suite
	router  *gin.Engine
	fetched []string
	fetchFn func(url string) ([]byte, error)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *HandlerSuite) SetupTest() {
	cat, err := card.NewCatalog(layout.Presets())
	s.Require().NoError(err)

	h := NewHandler(cat, "suspect", "multi", PhotoOptions{MaxBytes: 1 << 20, Timeout: 3 * time.Second})
	h.now = func() time.Time { return time.UnixMilli(1700000000000) }
	s.fetched = nil
	s.fetchFn = func(string) ([]byte, error) { return nil, errors.New("offline") }
	h.fetch = func(_ context.Context, url string) ([]byte, error) {
		s.fetched = append(s.fetched, url)
		return s.fetchFn(url)
	}
	s.router = NewRouter(h, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decodeImage(w *httptest.ResponseRecorder) image.Image {
	img, err := png.Decode(w.Body)
	s.Require().NoError(err)
	return img
}

func redPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 0xff, 0xff
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func (s *HandlerSuite) TestHealth() {
	w := s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
	s.NotEmpty(w.Header().Get("X-Correlation-ID"))
}

func (s *HandlerSuite) TestCorrelationIDIsEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal("abc-123", w.Header().Get("X-Correlation-ID"))
}

func (s *HandlerSuite) TestLayouts() {
	w := s.do(http.MethodGet, "/api/layouts", nil)
	s.Equal(http.StatusOK, w.Code)
	var body struct {
		Count   int `json:"count"`
		Layouts []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"layouts"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(4, body.Count)
	s.Equal("compact", body.Layouts[0].Name)

	w = s.do(http.MethodGet, "/api/layouts/multi", nil)
	s.Equal(http.StatusOK, w.Code)
	var spec layout.Spec
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &spec))
	s.Equal(layout.KindMulti, spec.Kind)

	w = s.do(http.MethodGet, "/api/layouts/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestCardImage() {
	w := s.do(http.MethodPost, "/api/card/image", map[string]any{
		"fields":    map[string]string{"fullname": "Jane Doe", "address": "Main St"},
		"timestamp": "2024-01-01 10:00",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("image/png", w.Header().Get("Content-Type"))
	s.NotEmpty(w.Header().Get("X-Card-ID"))
	s.Equal("attachment; filename=card_Jane_Doe_1700000000000.png", w.Header().Get("Content-Disposition"))
	s.Equal(image.Rect(0, 0, 1500, 2400), s.decodeImage(w).Bounds())
	s.Empty(s.fetched)
}

func (s *HandlerSuite) TestContentDispositionIsEscaped() {
	for name, want := range map[string]string{
		`Jane "JD"; Doe`: `card_Jane_"JD";_Doe_1700000000000.png`,
		"سارة أحمد":      "card_سارة_أحمد_1700000000000.png",
	} {
		w := s.do(http.MethodPost, "/api/card/image", map[string]any{
			"layout": "compact",
			"fields": map[string]string{"fullname": name},
		})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
		s.Require().NoError(err, name)
		s.Equal("attachment", disposition)
		s.Equal(want, params["filename"])
		s.Len(params, 1, name)
	}
}

func (s *HandlerSuite) TestUnmatchedRoute() {
	req := httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil)
	req.Header.Set("X-Correlation-ID", "scan-1")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("scan-1", w.Header().Get("X-Correlation-ID"))

	w = s.do(http.MethodGet, "/metrics", nil)
	s.Contains(w.Body.String(), `route="unmatched"`)
	s.NotContains(w.Body.String(), "wp-admin")
}

func (s *HandlerSuite) TestCardImageErrors() {
	w := s.do(http.MethodPost, "/api/card/image", "{not json")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/card/image", map[string]any{"layout": "nope"})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/card/image", map[string]any{"layout": "multi"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestCardPlanWithInlinePhoto() {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(redPNG())
	w := s.do(http.MethodPost, "/api/card/plan", map[string]any{
		"layout": "compact",
		"fields": map[string]string{"fullname": "Jane Doe"},
		"photo":  uri,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Layout string    `json:"layout"`
		Plan   card.Plan `json:"plan"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("compact", body.Layout)
	s.True(body.Plan.Photo.Present)
	s.Require().Len(body.Plan.Sections, 1)
	s.Len(body.Plan.Sections[0].Rows, 1)
	s.Contains(body.Plan.Footer.Text, "Recorded: ")
	s.Contains(body.Plan.Footer.Text, "2023")
}

func (s *HandlerSuite) TestBadInlinePhotoFallsBack() {
	w := s.do(http.MethodPost, "/api/card/plan", map[string]any{
		"fields": map[string]string{"fullname": "Jane Doe"},
		"photo":  "data:image/png,not-base64",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Plan card.Plan `json:"plan"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.False(body.Plan.Photo.Present)
}

func (s *HandlerSuite) TestPhotoURL() {
	s.fetchFn = func(string) ([]byte, error) { return redPNG(), nil }
	w := s.do(http.MethodPost, "/api/card/image", map[string]any{
		"fields":    map[string]string{"fullname": "Jane Doe"},
		"photo_url": "http://photos.local/jane.png",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal([]string{"http://photos.local/jane.png"}, s.fetched)
}

func (s *HandlerSuite) TestPhotoURLFailureStillRenders() {
	w := s.do(http.MethodPost, "/api/card/image", map[string]any{
		"fields":    map[string]string{"fullname": "Jane Doe"},
		"photo_url": "http://photos.local/missing.png",
	})
	s.Equal(http.StatusOK, w.Code)
	s.Len(s.fetched, 1)
}

func (s *HandlerSuite) TestMultiImage() {
	w := s.do(http.MethodPost, "/api/card/multi/image", map[string]any{
		"fields": map[string]string{"issueType": "Theft"},
		"persons": []map[string]any{
			{"number": 1, "type": "complainant", "fields": map[string]string{"fullname": "A"}},
			{"number": 2, "type": "accused", "fields": map[string]string{"fullname": "B"}},
		},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("attachment; filename=case_1700000000000.png", w.Header().Get("Content-Disposition"))
	img := s.decodeImage(w)
	s.Equal(1000, img.Bounds().Dx())
	s.Less(img.Bounds().Dy(), 3000)
}

func (s *HandlerSuite) TestMultiPersonLimits() {
	w := s.do(http.MethodPost, "/api/card/multi/image", map[string]any{"persons": []any{}})
	s.Equal(http.StatusBadRequest, w.Code)

	persons := make([]map[string]any, 6)
	for i := range persons {
		persons[i] = map[string]any{"fields": map[string]string{"fullname": "X"}}
	}
	w = s.do(http.MethodPost, "/api/card/multi/plan", map[string]any{"persons": persons})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/card/multi/plan", map[string]any{
		"layout":  "suspect",
		"persons": persons[:1],
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestMultiPlan() {
	w := s.do(http.MethodPost, "/api/card/multi/plan", map[string]any{
		"timestamp": "today",
		"persons":   []map[string]any{{"fields": map[string]string{"fullname": "A"}}},
	})
	s.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Plan card.MultiPlan `json:"plan"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Require().Len(body.Plan.Panels, 1)
	s.Equal(1, body.Plan.Panels[0].Number)
	s.Equal("Date: today", body.Plan.Header.Text)
}

func (s *HandlerSuite) TestQR() {
	w := s.do(http.MethodGet, "/api/qr", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/qr?text=hello&size=10", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("image/png", w.Header().Get("Content-Type"))
	img := s.decodeImage(w)
	s.Equal(64, img.Bounds().Dx())
	s.Equal(color.Gray{Y: 0xff}, color.GrayModel.Convert(img.At(0, 0)))
}

func (s *HandlerSuite) TestMetricsEndpoint() {
	s.do(http.MethodGet, "/api/health", nil)
	w := s.do(http.MethodGet, "/metrics", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "casecard_http_requests_total")
}

func TestDefaultFetchRefusesPrivateHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(redPNG())
	}))
	defer srv.Close()
	cat, err := card.NewCatalog(layout.Presets())
	require.NoError(t, err)

	h := NewHandler(cat, "suspect", "multi", PhotoOptions{MaxBytes: 1 << 20, Timeout: time.Second})
	_, err = h.fetch(context.Background(), srv.URL+"/photo.png")
	assert.ErrorIs(t, err, util.ErrBlockedHost)

	h = NewHandler(cat, "suspect", "multi", PhotoOptions{MaxBytes: 1 << 20, Timeout: time.Second, AllowPrivate: true})
	data, err := h.fetch(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	assert.Equal(t, redPNG(), data)
}
