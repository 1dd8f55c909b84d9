// seehuhn.de/go/loom - a hand-loom weaving preview
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package server

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/draft"
	"seehuhn.de/go/loom/fabric"
	"seehuhn.de/go/loom/notation"
	"seehuhn.de/go/loom/store"
)

// Handler implements the HTTP API.
type Handler struct {
	drafts  *Manager
	version string
	log     *slog.Logger
}

// NewHandler returns a handler serving the drafts held by m.
func NewHandler(m *Manager, version string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{drafts: m, version: version, log: log}
}

// HandleHealth reports that the server is up.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"drafts":  h.drafts.Len(),
	})
}

// HandleCreate stores the draft in the request body.  An empty body
// creates the default starting draft.
func (h *Handler) HandleCreate(c echo.Context) error {
	s, err := readSnapshot(c)
	if errors.Is(err, io.EOF) {
		s, err = nil, nil
	}
	if err != nil {
		return err
	}
	id := h.drafts.Create(s)
	h.log.Info("draft created", "id", id)
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

// HandleGet returns a stored draft.  The encoding is selected by the
// "format" query parameter or the Accept header, defaulting to JSON.
func (h *Handler) HandleGet(c echo.Context) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	f, err := responseFormat(c)
	if err != nil {
		return err
	}

	var s *draft.Snapshot
	err = h.drafts.With(id, func(doc *loom.Document) error {
		s = doc.Snapshot()
		return nil
	})
	if err != nil {
		return h.lookupError(id, err)
	}

	if f == store.JSON {
		return c.JSON(http.StatusOK, s)
	}
	data, err := store.Marshal(f, s)
	if err != nil {
		return newInternal("failed to encode draft", err)
	}
	return c.Blob(http.StatusOK, f.MediaType(), data)
}

// HandleReplace overwrites a stored draft with the request body.
func (h *Handler) HandleReplace(c echo.Context) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	s, err := readSnapshot(c)
	if errors.Is(err, io.EOF) {
		return newBadRequest("empty request body", nil)
	} else if err != nil {
		return err
	}
	if err := h.drafts.Replace(id, s); err != nil {
		return h.lookupError(id, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleDelete removes a stored draft.
func (h *Handler) HandleDelete(c echo.Context) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	if err := h.drafts.Delete(id); err != nil {
		return h.lookupError(id, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleThreading sets the threading sequence from its text notation,
// for example "1 2 3 4 (3 2)x2".
func (h *Handler) HandleThreading(c echo.Context) error {
	id, text, err := notationRequest(c)
	if err != nil {
		return err
	}
	seq, err := notation.ParseSequence(text)
	if err != nil {
		return newBadRequest("invalid threading", err)
	}
	err = h.drafts.With(id, func(doc *loom.Document) error {
		doc.Draft.Threading = seq
		return nil
	})
	if err != nil {
		return h.lookupError(id, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"threading": notation.FormatSequence(seq),
		"threads":   len(seq),
	})
}

// HandleDenting sets the denting plan from its text notation, for
// example "[1 2] [3 4]x2".
func (h *Handler) HandleDenting(c echo.Context) error {
	id, text, err := notationRequest(c)
	if err != nil {
		return err
	}
	groups, err := notation.ParseDenting(text)
	if err != nil {
		return newBadRequest("invalid denting", err)
	}
	var threads int
	err = h.drafts.With(id, func(doc *loom.Document) error {
		doc.Draft.Denting = groups
		threads = len(doc.Draft.ExpandDenting())
		return nil
	})
	if err != nil {
		return h.lookupError(id, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"denting": notation.FormatDenting(groups),
		"threads": threads,
	})
}

// DensityResponse is the body returned by HandleDensity.
type DensityResponse struct {
	Mode         string  `json:"mode"`
	EPI          float64 `json:"epi"`
	PPI          float64 `json:"ppi"`
	DentsPerInch float64 `json:"dentsPerInch,omitempty"`
	Threads      int     `json:"threads"`
	Zoom         float64 `json:"zoom"`
	WarpStep     float64 `json:"warpStep"`
	WeftStep     float64 `json:"weftStep"`
	Quality      string  `json:"quality"`
	Empty        bool    `json:"empty"`
}

// HandleDensity returns the thread density of a draft, and the cell size
// and quality a preview at the requested zoom would use.
func (h *Handler) HandleDensity(c echo.Context) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	zoom := float64(loom.ZoomDetail)
	if err := echo.QueryParamsBinder(c).Float64("zoom", &zoom).BindError(); err != nil {
		return newBadRequest("invalid query parameter", err)
	}
	if !(zoom > 0) {
		return newBadRequest("zoom must be positive", nil)
	}

	var resp DensityResponse
	err = h.drafts.With(id, func(doc *loom.Document) error {
		res := doc.Resolve()
		resp = DensityResponse{
			Mode:         doc.Draft.Loom.Density.Mode.String(),
			EPI:          res.Density.EPI,
			PPI:          res.Density.PPI,
			DentsPerInch: res.Density.DentsPerInch,
			Threads:      len(res.Threads),
			Zoom:         zoom,
			Empty:        res.Empty,
		}
		resp.WarpStep, resp.WeftStep = res.Density.Steps(zoom)
		resp.Quality = fabric.QualityAuto.Resolve(resp.WarpStep, resp.WeftStep).String()
		return nil
	})
	if err != nil {
		return h.lookupError(id, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleValidate lists the problems found in a draft.
func (h *Handler) HandleValidate(c echo.Context) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	var problems []string
	err = h.drafts.With(id, func(doc *loom.Document) error {
		problems = splitErrors(doc.Draft.Validate())
		return nil
	})
	if err != nil {
		return h.lookupError(id, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"valid":    len(problems) == 0,
		"problems": problems,
	})
}

// RenderQuery holds the query parameters of HandleRender.
type RenderQuery struct {
	Width, Height int
	Zoom          float64
	Quality       string
	Scale         string
	Guides        bool
	Rounded       bool

	// Thumb, if positive, gives the width of a downscaled copy which is
	// returned instead of the full preview.
	Thumb int
}

func (q *RenderQuery) bind(c echo.Context) error {
	err := echo.QueryParamsBinder(c).
		Int("width", &q.Width).
		Int("height", &q.Height).
		Float64("zoom", &q.Zoom).
		String("quality", &q.Quality).
		String("scale", &q.Scale).
		Bool("guides", &q.Guides).
		Bool("rounded", &q.Rounded).
		Int("thumb", &q.Thumb).
		BindError()
	if err != nil {
		return newBadRequest("invalid query parameter", err)
	}
	if q.Width <= 0 || q.Height <= 0 || q.Width > loom.MaxSide || q.Height > loom.MaxSide {
		return newBadRequest("image size out of range",
			errors.New("width and height must be between 1 and "+strconv.Itoa(loom.MaxSide)))
	}
	if q.Zoom < 0 {
		return newBadRequest("zoom must not be negative", nil)
	}
	if q.Thumb < 0 || q.Thumb > q.Width {
		return newBadRequest("thumbnail width out of range", nil)
	}
	return nil
}

func (q *RenderQuery) options() (loom.RenderOptions, error) {
	quality, ok := fabric.ParseQuality(q.Quality)
	if q.Quality != "" && !ok {
		return loom.RenderOptions{}, newBadRequest("unknown quality "+strconv.Quote(q.Quality), nil)
	}
	sm, ok := loom.ParseScaleMode(q.Scale)
	if !ok {
		return loom.RenderOptions{}, newBadRequest("unknown scale mode "+strconv.Quote(q.Scale), nil)
	}
	return loom.RenderOptions{
		Zoom:    q.Zoom,
		Quality: quality,
		Scale:   sm,
		Guides:  q.Guides,
		Rounded: q.Rounded,
	}, nil
}

// HandleRender returns a PNG preview of a draft.
func (h *Handler) HandleRender(c echo.Context) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	q := RenderQuery{Width: loom.DefaultWidth, Height: loom.DefaultHeight}
	if err := q.bind(c); err != nil {
		return err
	}
	opts, err := q.options()
	if err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, q.Width, q.Height))
	var stats loom.Stats
	err = h.drafts.With(id, func(doc *loom.Document) (err error) {
		stats, err = doc.Render(img, opts)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return newNotFound(id)
	} else if err != nil {
		return newInternal("rendering failed", err)
	}

	var out image.Image = img
	if q.Thumb > 0 {
		out = loom.Thumbnail(img, q.Thumb)
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, out); err != nil {
		return newInternal("failed to encode image", err)
	}

	hdr := c.Response().Header()
	hdr.Set("X-Loom-Quality", stats.Quality.String())
	hdr.Set("X-Loom-Cells", strconv.Itoa(stats.Cells))
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) lookupError(id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return newNotFound(id)
	}
	return err
}

func draftID(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", newBadRequest("invalid draft id", err)
	}
	return id, nil
}

// readSnapshot decodes the request body, in the encoding given by the
// Content-Type header.  An empty body gives an error wrapping io.EOF.
func readSnapshot(c echo.Context) (*draft.Snapshot, error) {
	f := store.JSON
	if ct := c.Request().Header.Get(echo.HeaderContentType); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, newBadRequest("invalid content type", err)
		}
		switch mt {
		case "application/json":
			f = store.JSON
		case "application/yaml", "application/x-yaml", "text/yaml":
			f = store.YAML
		case "application/msgpack", "application/x-msgpack":
			f = store.MsgPack
		default:
			return nil, newUnsupported(mt)
		}
	}

	s, err := store.Decode(c.Request().Body, f)
	if errors.Is(err, io.EOF) {
		return nil, err
	} else if err != nil {
		return nil, newBadRequest("invalid draft", err)
	}
	return s, nil
}

func responseFormat(c echo.Context) (store.Format, error) {
	if name := c.QueryParam("format"); name != "" {
		f, err := store.ParseFormat(name)
		if err != nil {
			return 0, newBadRequest("unknown format", err)
		}
		return f, nil
	}
	accept := c.Request().Header.Get(echo.HeaderAccept)
	switch {
	case strings.Contains(accept, "msgpack"):
		return store.MsgPack, nil
	case strings.Contains(accept, "yaml"):
		return store.YAML, nil
	}
	return store.JSON, nil
}

// notationRequest reads the draft id and the plain text body of a
// notation update.
func notationRequest(c echo.Context) (string, string, error) {
	id, err := draftID(c)
	if err != nil {
		return "", "", err
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return "", "", newBadRequest("failed to read request body", err)
	}
	return id, string(body), nil
}

// splitErrors lists the messages of an error built by errors.Join.
func splitErrors(err error) []string {
	if err == nil {
		return nil
	}
	var res []string
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range u.Unwrap() {
			res = append(res, e.Error())
		}
		return res
	}
	return []string{err.Error()}
}
