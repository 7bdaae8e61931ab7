package media

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interera-ai/backend/internal/httperr"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF")
	webpBytes = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00")
)

func TestValidateAccepted(t *testing.T) {
	for _, declared := range []string{"image/jpeg", "image/png", "image/webp"} {
		att, err := Validate(declared, "", []byte("payload"))
		require.NoError(t, err, declared)
		assert.Equal(t, declared, att.Type)
		assert.Equal(t, []byte("payload"), att.Data)
	}
}

func TestValidateStripsParameters(t *testing.T) {
	att, err := Validate("image/png; charset=utf-8", "", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", att.Type)
}

func TestValidateRejectsDisallowed(t *testing.T) {
	for _, declared := range []string{"text/plain", "image/gif", "application/pdf", "garbage"} {
		_, err := Validate(declared, "", []byte("payload"))
		require.Error(t, err, declared)
		assert.Equal(t, http.StatusUnsupportedMediaType, httperr.StatusOf(err), declared)
	}
}

func TestValidateFallback(t *testing.T) {
	att, err := Validate("", "image/png", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", att.Type)

	_, err = Validate("", "", pngBytes)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, httperr.StatusOf(err))
}

func TestValidateRejectsEmptyPayload(t *testing.T) {
	_, err := Validate("image/jpeg", "", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(err))
}

func TestValidateTypeCheckedBeforePayload(t *testing.T) {
	// An empty file of a disallowed type reports the type problem.
	_, err := Validate("text/plain", "", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, httperr.StatusOf(err))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "image/png", Detect(pngBytes))
	assert.Equal(t, "image/jpeg", Detect(jpegBytes))
	assert.Equal(t, "image/webp", Detect(webpBytes))
	assert.Equal(t, "application/octet-stream", Detect(gifBytes))
	assert.Equal(t, "application/octet-stream", Detect([]byte("not an image")))
}
