package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/oura/internal/adapters/locale"
	"github.com/randomtoy/oura/internal/adapters/report"
	"github.com/randomtoy/oura/internal/adapters/sse"
	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/domain"
)

type Handler struct {
	mgr           *app.Manager
	locales       *locale.Catalog
	events        *sse.Broadcaster
	defaultSpread domain.SpreadType
	defaultLocale string
	logger        *slog.Logger
}

func NewHandler(mgr *app.Manager, locales *locale.Catalog, events *sse.Broadcaster, defaultSpread domain.SpreadType, defaultLocale string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		mgr:           mgr,
		locales:       locales,
		events:        events,
		defaultSpread: defaultSpread,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	v1 := e.Group("/v1")
	v1.GET("/spreads", h.ListSpreads)
	v1.GET("/cards", h.ListCards)

	s := v1.Group("/sessions")
	s.POST("", h.CreateSession)
	s.GET("/:id", h.GetSession)
	s.DELETE("/:id", h.DeleteSession)
	s.POST("/:id/start", h.StartReading)
	s.POST("/:id/advance", h.Advance)
	s.POST("/:id/spread", h.SwitchSpread)
	s.POST("/:id/reset", h.Reset)
	s.POST("/:id/input", h.Input)
	s.POST("/:id/bounds", h.SetBounds)
	s.POST("/:id/reveal/:index", h.Reveal)
	s.POST("/:id/magnify/:index", h.Magnify)
	s.DELETE("/:id/magnify", h.DismissMagnify)
	s.GET("/:id/reading", h.Reading)
	s.GET("/:id/events", h.Events)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListSpreads(c echo.Context) error {
	loc, err := h.localizer(c)
	if err != nil {
		return mapError(c, err)
	}

	var out []SpreadResponse
	for _, st := range domain.SpreadTypes() {
		def, err := domain.Definition(st)
		if err != nil {
			return mapError(c, err)
		}
		resp := toSpreadResponse(loc, app.NewSpreadView(def))
		for i, key := range def.Positions {
			p := domain.Position{Index: i, Key: key}
			resp.Positions = append(resp.Positions, PositionResponse{
				Index: i,
				Key:   string(key),
				Label: loc.Text(p.Label()),
			})
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ListCards(c echo.Context) error {
	loc, err := h.localizer(c)
	if err != nil {
		return mapError(c, err)
	}

	category := c.QueryParam("category")
	var out []CardResponse
	for _, card := range domain.AllCards() {
		if category != "" && string(card.Category()) != category {
			continue
		}
		out = append(out, toCardResponse(loc, card))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req SpreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	st, err := h.spreadOrDefault(req.Spread, h.defaultSpread)
	if err != nil {
		return mapError(c, err)
	}

	snap, err := h.mgr.Create(c.Request().Context(), st)
	if err != nil {
		return mapError(c, err)
	}
	return h.respond(c, http.StatusCreated, app.Result{Applied: true, Session: snap})
}

func (h *Handler) GetSession(c echo.Context) error {
	snap, err := h.mgr.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return h.respond(c, http.StatusOK, app.Result{Session: snap})
}

func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.mgr.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) StartReading(c echo.Context) error {
	return h.withSpread(c, func(s *app.Session, st domain.SpreadType) (bool, error) {
		return s.StartReading(st)
	})
}

func (h *Handler) SwitchSpread(c echo.Context) error {
	return h.withSpread(c, func(s *app.Session, st domain.SpreadType) (bool, error) {
		return s.SwitchSpread(st)
	})
}

func (h *Handler) Reset(c echo.Context) error {
	var req SpreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	st, err := h.spreadOrDefault(req.Spread, "")
	if err != nil {
		return mapError(c, err)
	}
	return h.apply(c, func(s *app.Session) (bool, error) {
		return true, s.Reset(st)
	})
}

func (h *Handler) Advance(c echo.Context) error {
	return h.apply(c, func(s *app.Session) (bool, error) {
		return s.Advance(), nil
	})
}

func (h *Handler) Input(c echo.Context) error {
	var req InputRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	in, err := app.ParseInput(req.Event)
	if err != nil {
		return mapError(c, err)
	}
	return h.apply(c, func(s *app.Session) (bool, error) {
		return s.Input(in)
	})
}

// SetBounds reports the client's container size for the shuffle area.
func (h *Handler) SetBounds(c echo.Context) error {
	var req BoundsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	return h.apply(c, func(s *app.Session) (bool, error) {
		return s.SetBounds(req.Width, req.Height)
	})
}

func (h *Handler) Reveal(c echo.Context) error {
	index, err := parseIndex(c.Param("index"))
	if err != nil {
		return mapError(c, err)
	}
	return h.apply(c, func(s *app.Session) (bool, error) {
		return s.RevealCard(index), nil
	})
}

func (h *Handler) Magnify(c echo.Context) error {
	index, err := parseIndex(c.Param("index"))
	if err != nil {
		return mapError(c, err)
	}
	return h.apply(c, func(s *app.Session) (bool, error) {
		return s.Magnify(index), nil
	})
}

func (h *Handler) DismissMagnify(c echo.Context) error {
	return h.apply(c, func(s *app.Session) (bool, error) {
		return s.DismissMagnify(), nil
	})
}

func (h *Handler) Reading(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = string(report.FormatJSON)
	}
	w, err := report.ForFormat(format)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	loc, err := h.localizer(c)
	if err != nil {
		return mapError(c, err)
	}

	snap, err := h.mgr.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	if snap.Reading == nil {
		return mapError(c, domain.ErrNoReading)
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, app.RenderReading(loc, *snap.Reading)); err != nil {
		return mapError(c, err)
	}
	return c.Blob(http.StatusOK, w.ContentType(), buf.Bytes())
}

// Events streams the session's state and pulse events until the client
// disconnects or the session is closed.
func (h *Handler) Events(c echo.Context) error {
	id := c.Param("id")
	ch, cancel := h.events.Subscribe(id)
	defer cancel()

	snap, err := h.mgr.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	initial, err := json.Marshal(app.Event{Type: app.EventState, Session: id, Snapshot: &snap})
	if err != nil {
		return mapError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	if err := (sse.Message{Event: string(app.EventState), Data: initial}).Write(res); err != nil {
		return nil
	}
	res.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("sse client disconnected", "session", id)
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := msg.Write(res); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func (h *Handler) withSpread(c echo.Context, fn func(*app.Session, domain.SpreadType) (bool, error)) error {
	var req SpreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	st, err := h.spreadOrDefault(req.Spread, "")
	if err != nil {
		return mapError(c, err)
	}
	return h.apply(c, func(s *app.Session) (bool, error) {
		if st == "" {
			st = s.Controller().SpreadType()
		}
		return fn(s, st)
	})
}

func (h *Handler) apply(c echo.Context, fn func(*app.Session) (bool, error)) error {
	res, err := h.mgr.Apply(c.Request().Context(), c.Param("id"), fn)
	if err != nil {
		return mapError(c, err)
	}
	return h.respond(c, http.StatusOK, res)
}

func (h *Handler) respond(c echo.Context, status int, res app.Result) error {
	loc, err := h.localizer(c)
	if err != nil {
		return mapError(c, err)
	}
	requestID, _ := c.Get("request_id").(string)
	return c.JSON(status, ResultResponse{
		Applied: res.Applied,
		Session: toSessionResponse(loc, res.Session),
		Meta:    MetaResp{RequestID: requestID},
	})
}

// localizer picks the locale from ?lang, then Accept-Language, then the
// configured default.
func (h *Handler) localizer(c echo.Context) (*locale.Localizer, error) {
	var prefs []string
	if lang := c.QueryParam("lang"); lang != "" {
		prefs = append(prefs, lang)
	}
	if accept := c.Request().Header.Get("Accept-Language"); accept != "" {
		prefs = append(prefs, accept)
	}
	prefs = append(prefs, h.defaultLocale)
	return h.locales.Localizer(prefs...)
}

func (h *Handler) spreadOrDefault(raw string, fallback domain.SpreadType) (domain.SpreadType, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return domain.ParseSpreadType(raw)
}

func parseIndex(raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, domain.ErrInvalidIndex
	}
	return i, nil
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownSpread),
		errors.Is(err, domain.ErrInvalidIndex),
		errors.Is(err, domain.ErrUnknownInput),
		errors.Is(err, domain.ErrInvalidBounds):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNoReading):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrLoopStopped):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "shutting down"})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
