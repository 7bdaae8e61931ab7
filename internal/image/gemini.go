package image

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/do"
	"google.golang.org/genai"

	"github.com/interera-ai/backend/internal/httperr"
	"github.com/interera-ai/backend/internal/imgutil"
	"github.com/interera-ai/backend/internal/log"
)

type GeminiGenerator struct {
	client   *genai.Client
	model    string
	timeout  time.Duration
	forcePNG bool
}

func NewGeminiGenerator(i *do.Injector) (Generator, error) {
	client := do.MustInvoke[*genai.Client](i)
	model := do.MustInvokeNamed[string](i, "model")
	timeout := do.MustInvokeNamed[time.Duration](i, "generate_timeout")
	forcePNG := do.MustInvokeNamed[bool](i, "force_png")
	return &GeminiGenerator{client, model, timeout, forcePNG}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, params Params) ([]byte, error) {
	logger := log.FromContextOrDiscard(ctx).WithGroup("gemini").With(
		"model", g.model,
		"attachments", len(params.Attachments),
	)
	logger.Info("generating image")

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := make([]*genai.Part, 0, len(params.Attachments)+1)
	parts = append(parts, genai.NewPartFromText(params.Prompt))
	for _, att := range params.Attachments {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: att.Type, Data: att.Data}})
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	img := firstImage(resp, logger)
	if img == nil {
		return nil, httperr.BadGateway("model returned no image", nil)
	}

	if g.forcePNG {
		img, err = imgutil.NormalizePNG(img)
		if err != nil {
			return nil, fmt.Errorf("normalize image: %w", err)
		}
	}

	logger.Info("received image", "bytes", len(img))
	return img, nil
}

func firstImage(resp *genai.GenerateContentResponse, logger *slog.Logger) []byte {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			logger.Debug("model text part", "text", part.Text)
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}
