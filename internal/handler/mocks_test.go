package handler

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"

	"github.com/interera-ai/backend/internal/history"
	"github.com/interera-ai/backend/internal/image"
	"github.com/interera-ai/backend/internal/media"
	"github.com/interera-ai/backend/internal/metrics"
	"github.com/interera-ai/backend/internal/session"
)

type stubGenerator struct {
	img    []byte
	err    error
	params image.Params
	calls  int
}

func (s *stubGenerator) Generate(_ context.Context, p image.Params) ([]byte, error) {
	s.params = p
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.img, nil
}

func newTestMux(t *testing.T, gen image.Generator) *http.ServeMux {
	t.Helper()

	injector := do.New()
	do.ProvideNamedValue(injector, "history_limit", 10)
	do.ProvideNamedValue(injector, "cookie_secure", false)
	do.Provide(injector, func(i *do.Injector) (history.Store, error) {
		return history.NewMemoryStore(i)
	})
	do.ProvideValue(injector, gen)
	do.Provide(injector, session.NewManager)
	do.ProvideValue(injector, metrics.New())
	do.ProvideValue(injector, &media.Dumper{})

	h, err := NewHandler(injector)
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

type filePart struct {
	field string
	ctype string
	data  []byte
}

func multipartBody(t *testing.T, files []filePart, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for _, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, "upload.bin"))
		if f.ctype != "" {
			hdr.Set("Content-Type", f.ctype)
		}
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}
