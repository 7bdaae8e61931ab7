package history

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/samber/do"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/interera-ai/backend/internal/log"
	"github.com/interera-ai/backend/internal/media"
)

type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	limit  int
}

func NewS3Store(i *do.Injector) (*S3Store, error) {
	client := do.MustInvoke[*s3.Client](i)
	bucket := do.MustInvokeNamed[string](i, "history_bucket")
	prefix := do.MustInvokeNamed[string](i, "history_prefix")
	limit := do.MustInvokeNamed[int](i, "history_limit")
	return &S3Store{client, bucket, prefix, limit}, nil
}

func (s *S3Store) dir(sessionID string) string { return s.prefix + sessionID + "/" }

// Append names objects by zero-padded creation nanos so lexicographic key
// order is generation order.
func (s *S3Store) Append(ctx context.Context, sessionID string, img []byte) error {
	key := fmt.Sprintf("%s%020d.bin", s.dir(sessionID), time.Now().UnixNano())
	log.FromContextOrDiscard(ctx).Debug("uploading history object", "bucket", s.bucket, "key", key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img),
		ContentType: aws.String(media.Detect(img)),
	})
	if err != nil {
		return err
	}
	return s.trim(ctx, sessionID)
}

func (s *S3Store) Get(ctx context.Context, sessionID string) ([][]byte, error) {
	keys, err := s.list(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	log.FromContextOrDiscard(ctx).Debug("fetching history objects", "bucket", s.bucket, "count", len(keys))

	out := make([][]byte, len(keys))
	group, ctx := errgroup.WithContext(ctx)
	for idx, key := range keys {
		group.Go(func() error {
			obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return err
			}
			defer obj.Body.Close()

			data, err := io.ReadAll(obj.Body)
			if err != nil {
				return err
			}
			out[idx] = data
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *S3Store) list(ctx context.Context, sessionID string) ([]string, error) {
	var keys []string
	pager := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.dir(sessionID)),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}

func (s *S3Store) trim(ctx context.Context, sessionID string) error {
	keys, err := s.list(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(keys) <= s.limit {
		return nil
	}

	excess := lo.Map(keys[:len(keys)-s.limit], func(k string, _ int) s3types.ObjectIdentifier {
		return s3types.ObjectIdentifier{Key: aws.String(k)}
	})
	log.FromContextOrDiscard(ctx).Debug("trimming history objects", "bucket", s.bucket, "count", len(excess))

	_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3types.Delete{Objects: excess, Quiet: aws.Bool(true)},
	})
	return err
}
