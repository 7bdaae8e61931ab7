package image

import (
	"context"

	"github.com/interera-ai/backend/internal/media"
)

type Params struct {
	Prompt      string
	Attachments []media.Attachment
}

type Generator interface {
	Generate(context.Context, Params) ([]byte, error)
}
