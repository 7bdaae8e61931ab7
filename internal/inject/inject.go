package inject

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"google.golang.org/genai"

	"github.com/interera-ai/backend/internal/config"
	"github.com/interera-ai/backend/internal/handler"
	"github.com/interera-ai/backend/internal/history"
	"github.com/interera-ai/backend/internal/image"
	"github.com/interera-ai/backend/internal/log"
	"github.com/interera-ai/backend/internal/media"
	"github.com/interera-ai/backend/internal/metrics"
	"github.com/interera-ai/backend/internal/param"
	"github.com/interera-ai/backend/internal/server"
	"github.com/interera-ai/backend/internal/session"
)

func Setup(ctx context.Context, cfg config.Config) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})

	do.ProvideNamedValue(injector, "addr", cfg.Addr)
	do.ProvideNamedValue(injector, "shutdown_timeout", cfg.ShutdownTimeout)
	do.ProvideNamedValue(injector, "model", cfg.GeminiModel)
	do.ProvideNamedValue(injector, "generate_timeout", cfg.GenerateTimeout)
	do.ProvideNamedValue(injector, "force_png", cfg.ForcePNG)
	do.ProvideNamedValue(injector, "history_limit", cfg.HistoryLimit)
	do.ProvideNamedValue(injector, "history_ttl", cfg.HistoryTTL)
	do.ProvideNamedValue(injector, "history_bucket", cfg.HistoryBucket)
	do.ProvideNamedValue(injector, "history_prefix", cfg.HistoryPrefix)
	do.ProvideNamedValue(injector, "cookie_secure", cfg.CookieSecure)

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*redis.Client](injector, func(i *do.Injector) (*redis.Client, error) {
		return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), nil
	})

	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)
	do.ProvideNamed[string](injector, "gemini_token", func(i *do.Injector) (string, error) {
		if cfg.GeminiAPIToken != "" {
			return cfg.GeminiAPIToken, nil
		}
		return do.MustInvoke[param.Fetcher](i).Fetch(ctx, cfg.GeminiTokenParam)
	})
	do.Provide[*genai.Client](injector, func(i *do.Injector) (*genai.Client, error) {
		return genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  do.MustInvokeNamed[string](i, "gemini_token"),
			Backend: genai.BackendGeminiAPI,
		})
	})

	do.Provide[history.Store](injector, func(i *do.Injector) (history.Store, error) {
		switch cfg.HistoryBackend {
		case "redis":
			return history.NewRedisStore(i)
		case "s3":
			return history.NewS3Store(i)
		default:
			return history.NewMemoryStore(i)
		}
	})

	do.Provide[image.Generator](injector, image.NewGeminiGenerator)
	do.Provide[*session.Manager](injector, session.NewManager)
	do.ProvideValue(injector, metrics.New())
	do.ProvideValue(injector, &media.Dumper{Dir: cfg.DebugDir})
	do.Provide[*handler.Handler](injector, handler.NewHandler)
	do.Provide[*server.Server](injector, server.NewServer)

	return injector
}
