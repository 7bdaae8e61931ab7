package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samber/do"
	"github.com/samber/lo"

	"github.com/interera-ai/backend/internal/history"
	"github.com/interera-ai/backend/internal/httperr"
	"github.com/interera-ai/backend/internal/image"
	"github.com/interera-ai/backend/internal/log"
	"github.com/interera-ai/backend/internal/media"
	"github.com/interera-ai/backend/internal/metrics"
	"github.com/interera-ai/backend/internal/prompt"
	"github.com/interera-ai/backend/internal/session"
)

type HistoryOutput struct {
	Count        int      `json:"count"`
	ImagesBase64 []string `json:"images_base64"`
}

type Handler struct {
	generator image.Generator
	store     history.Store
	sessions  *session.Manager
	metrics   *metrics.Metrics
	dumper    *media.Dumper
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return &Handler{
		generator: do.MustInvoke[image.Generator](i),
		store:     do.MustInvoke[history.Store](i),
		sessions:  do.MustInvoke[*session.Manager](i),
		metrics:   do.MustInvoke[*metrics.Metrics](i),
		dumper:    do.MustInvoke[*media.Dumper](i),
	}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /interera", h.handle(h.create))
	mux.HandleFunc("POST /interera/inpaint", h.handle(h.createInpaint))
	mux.HandleFunc("GET /interera/history", h.handle(h.history))
}

// handle adapts an error-returning handler to http.HandlerFunc, mapping the
// error to its JSON response in one place.
func (h *Handler) handle(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		logger := log.FromContextOrDiscard(r.Context())
		if httperr.StatusOf(err) >= http.StatusInternalServerError {
			logger.Error("request failed", "error", err)
		} else {
			logger.Warn("request rejected", "error", err)
		}
		httperr.Write(w, err)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	log.FromContextOrDiscard(ctx).WithGroup("CreateHandler").Info("handling generation request")

	att, err := h.readUpload(r, "image", "")
	if err != nil {
		return err
	}
	h.dump(ctx, "image", att)

	img, err := h.generate(ctx, "/interera", prompt.Interior(), []media.Attachment{att})
	if err != nil {
		return err
	}
	return h.respond(w, r, img)
}

func (h *Handler) createInpaint(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	att, err := h.readUpload(r, "image", "")
	if err != nil {
		return err
	}
	h.dump(ctx, "image", att)
	attachments := []media.Attachment{att}

	mask, ok, err := h.maybeUpload(r, "mask", "image/png")
	if err != nil {
		return err
	}
	if ok {
		h.dump(ctx, "mask", mask)
		attachments = append(attachments, mask)
	}
	log.FromContextOrDiscard(ctx).WithGroup("InpaintHandler").Info("handling inpaint request", "mask", ok)

	p, err := prompt.Inpaint(r.FormValue("optional_detail"))
	if err != nil {
		return fmt.Errorf("rendering prompt: %w", err)
	}

	img, err := h.generate(ctx, "/interera/inpaint", p, attachments)
	if err != nil {
		return err
	}
	return h.respond(w, r, img)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	log.FromContextOrDiscard(ctx).WithGroup("HistoryHandler").Info("handling history request")

	token := cookieValue(r)
	if token == "" {
		return httperr.Unauthorized("missing session cookie")
	}

	images, err := h.store.Get(ctx, token)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}
	if len(images) == 0 {
		return httperr.NotFound("no generated images for this session")
	}

	encoded := lo.Map(images, func(img []byte, _ int) string {
		return base64.StdEncoding.EncodeToString(img)
	})
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(HistoryOutput{Count: len(encoded), ImagesBase64: encoded})
}

func (h *Handler) generate(ctx context.Context, route, p string, attachments []media.Attachment) ([]byte, error) {
	start := time.Now()
	img, err := h.generator.Generate(ctx, image.Params{Prompt: p, Attachments: attachments})
	h.metrics.GenerationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.GenerationErrorsTotal.WithLabelValues(route).Inc()
		return nil, err
	}
	return img, nil
}

// respond appends the image to the caller's history and writes it back with
// its sniffed type, minting the session cookie when the request had none.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, img []byte) error {
	ctx := r.Context()

	token, isNew := h.sessions.Resolve(cookieValue(r))
	if err := h.store.Append(ctx, token, img); err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	if isNew {
		http.SetCookie(w, h.sessions.Cookie(token))
		h.metrics.SessionsCreatedTotal.Inc()
	}

	w.Header().Set("Content-Type", media.Detect(img))
	if _, err := w.Write(img); err != nil {
		log.FromContextOrDiscard(ctx).Warn("writing image response", "error", err)
	}
	return nil
}

func (h *Handler) readUpload(r *http.Request, field, fallback string) (media.Attachment, error) {
	att, ok, err := h.maybeUpload(r, field, fallback)
	if err != nil {
		return media.Attachment{}, err
	}
	if !ok {
		return media.Attachment{}, httperr.BadRequest("missing " + field + " upload")
	}
	return att, nil
}

func (h *Handler) maybeUpload(r *http.Request, field, fallback string) (media.Attachment, bool, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return media.Attachment{}, false, nil
		}
		return media.Attachment{}, false, httperr.BadRequest("malformed multipart request")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return media.Attachment{}, false, httperr.BadRequest("reading " + field + " upload")
	}

	att, err := media.Validate(header.Header.Get("Content-Type"), fallback, data)
	if err != nil {
		return media.Attachment{}, false, err
	}
	return att, true, nil
}

func (h *Handler) dump(ctx context.Context, name string, att media.Attachment) {
	if err := h.dumper.Dump(ctx, name, att); err != nil {
		log.FromContextOrDiscard(ctx).Warn("dumping upload", "name", name, "error", err)
	}
}

func cookieValue(r *http.Request) string {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
