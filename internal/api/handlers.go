package api

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youruser/casecard/internal/card"
	imagepkg "github.com/youruser/casecard/internal/image"
	"github.com/youruser/casecard/internal/layout"
	"github.com/youruser/casecard/internal/record"
	"github.com/youruser/casecard/internal/util"
)

// PhotoOptions bound photo intake. Hosts and AllowPrivate restrict where
// photo_url downloads may go.
type PhotoOptions struct {
	MaxBytes     int64
	Timeout      time.Duration
	Hosts        []string
	AllowPrivate bool
}

// Handler serves the card API from a catalog of layouts.
type Handler struct {
	catalog       *card.Catalog
	defaultLayout string
	multiLayout   string
	photos        PhotoOptions
	now           func() time.Time
	fetch         func(ctx context.Context, url string) ([]byte, error)
}

func NewHandler(catalog *card.Catalog, defaultLayout, multiLayout string, photos PhotoOptions) *Handler {
	fetcher := imagepkg.NewPhotoFetcher(util.HostPolicy{Allow: photos.Hosts, AllowPrivate: photos.AllowPrivate}, photos.Timeout, photos.MaxBytes)
	return &Handler{
		catalog:       catalog,
		defaultLayout: defaultLayout,
		multiLayout:   multiLayout,
		photos:        photos,
		now:           time.Now,
		fetch:         fetcher.Fetch,
	}
}

type cardRequest struct {
	Layout    string            `json:"layout"`
	Fields    map[string]string `json:"fields"`
	Photo     string            `json:"photo"`
	PhotoURL  string            `json:"photo_url"`
	Timestamp string            `json:"timestamp"`
}

type personRequest struct {
	Number   int               `json:"number"`
	Type     string            `json:"type"`
	Fields   map[string]string `json:"fields"`
	Photo    string            `json:"photo"`
	PhotoURL string            `json:"photo_url"`
}

type multiRequest struct {
	Layout    string            `json:"layout"`
	Fields    map[string]string `json:"fields"`
	Timestamp string            `json:"timestamp"`
	Persons   []personRequest   `json:"persons"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listLayouts(c *gin.Context) {
	type summary struct {
		Name   string `json:"name"`
		Kind   string `json:"kind"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	names := h.catalog.Names()
	out := make([]summary, 0, len(names))
	for _, n := range names {
		s, _ := h.catalog.Spec(n)
		out = append(out, summary{Name: s.Name, Kind: s.Kind, Width: s.Width, Height: s.Height})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "layouts": out})
}

func (h *Handler) getLayout(c *gin.Context) {
	s, ok := h.catalog.Spec(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "layout not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) bindCard(c *gin.Context) (*card.Renderer, record.Record, bool) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, record.Record{}, false
	}
	name := req.Layout
	if name == "" {
		name = h.defaultLayout
	}
	r, err := h.catalog.Single(name)
	if err != nil {
		writeError(c, err)
		return nil, record.Record{}, false
	}
	rec := record.Record{
		Fields:    req.Fields,
		Timestamp: req.Timestamp,
		Photo:     h.photo(c, req.Photo, req.PhotoURL),
	}
	if rec.Timestamp == "" {
		rec.Timestamp = record.Stamp(h.now())
	}
	return r, rec, true
}

func (h *Handler) cardImage(c *gin.Context) {
	r, rec, ok := h.bindCard(c)
	if !ok {
		return
	}
	out, err := r.Render(rec)
	if err != nil {
		writeError(c, err)
		return
	}
	h.sendCard(c, out, record.FileName(rec, h.now(), out.Format.Ext()))
}

func (h *Handler) cardPlan(c *gin.Context) {
	r, rec, ok := h.bindCard(c)
	if !ok {
		return
	}
	p, err := r.Plan(rec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"layout": r.Spec().Name, "plan": p})
}

func (h *Handler) bindMulti(c *gin.Context) (*card.MultiRenderer, record.CaseRecord, []record.Person, bool) {
	var req multiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, record.CaseRecord{}, nil, false
	}
	if len(req.Persons) > record.MaxPersons {
		writeError(c, card.ErrTooManyPersons)
		return nil, record.CaseRecord{}, nil, false
	}
	name := req.Layout
	if name == "" {
		name = h.multiLayout
	}
	m, err := h.catalog.Multi(name)
	if err != nil {
		writeError(c, err)
		return nil, record.CaseRecord{}, nil, false
	}
	caseRec := record.CaseRecord{Fields: req.Fields, Timestamp: req.Timestamp}
	if caseRec.Timestamp == "" {
		caseRec.Timestamp = record.Stamp(h.now())
	}
	persons := make([]record.Person, len(req.Persons))
	for i, p := range req.Persons {
		persons[i] = record.Person{
			Number: p.Number,
			Type:   p.Type,
			Fields: p.Fields,
			Photo:  h.photo(c, p.Photo, p.PhotoURL),
		}
	}
	return m, caseRec, persons, true
}

func (h *Handler) multiImage(c *gin.Context) {
	m, caseRec, persons, ok := h.bindMulti(c)
	if !ok {
		return
	}
	out, err := m.Render(caseRec, persons)
	if err != nil {
		writeError(c, err)
		return
	}
	name := "case_" + strconv.FormatInt(h.now().UnixMilli(), 10) + out.Format.Ext()
	h.sendCard(c, out, name)
}

func (h *Handler) multiPlan(c *gin.Context) {
	m, caseRec, persons, ok := h.bindMulti(c)
	if !ok {
		return
	}
	p, err := m.Plan(caseRec, persons)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"layout": m.Spec().Name, "plan": p})
}

func (h *Handler) sendCard(c *gin.Context, out *card.Card, fileName string) {
	id := uuid.NewString()
	c.Set(ctxCardID, id)
	c.Header("X-Card-ID", id)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	LoggerFromContext(c).Info("card sent", slog.String("card_id", id), slog.Int("bytes", len(out.Data)))
	c.Data(http.StatusOK, out.ContentType(), out.Data)
}

// photo resolves an inline payload or a URL. Failures are logged and yield
// no photo, so the card falls back to the placeholder.
func (h *Handler) photo(c *gin.Context, inline, url string) []byte {
	log := LoggerFromContext(c)
	switch {
	case inline != "":
		data, err := imagepkg.DecodeDataURI(inline)
		if err != nil {
			log.Warn("photo payload rejected", slog.Any("error", err))
			return nil
		}
		if h.photos.MaxBytes > 0 && int64(len(data)) > h.photos.MaxBytes {
			log.Warn("photo payload rejected", slog.Any("error", imagepkg.ErrTooLarge), slog.Int("bytes", len(data)))
			return nil
		}
		return data
	case url != "":
		data, err := h.fetch(c.Request.Context(), url)
		if err != nil {
			log.Warn("photo download failed", slog.String("url", url), slog.Any("error", err))
			return nil
		}
		return data
	}
	return nil
}

// qr returns a PNG QR code for the "text" query parameter.
func (h *Handler) qr(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 400
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = min(max(v, 64), 2048)
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, card.ErrUnknownLayout):
		status = http.StatusNotFound
	case errors.Is(err, layout.ErrInvalid),
		errors.Is(err, card.ErrNoPersons),
		errors.Is(err, card.ErrTooManyPersons):
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		LoggerFromContext(c).Error("render failed", slog.Any("error", err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
