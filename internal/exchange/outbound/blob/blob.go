package blob

import (
	"bytes"
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/pixelveil/pixelveil/internal/pkg/instrument"
	"github.com/pixelveil/pixelveil/internal/pkg/storage"
)

// Blob hosts stego images in object storage. Callers get a presigned
// download URL back; the object key inside the bucket stays internal.
type Blob struct {
	client    storage.Storage
	bucket    string
	urlExpiry time.Duration
	ins       instrument.Instrumentation
}

func New(client storage.Storage, bucket string, urlExpiry time.Duration, ins instrument.Instrumentation) *Blob {
	return &Blob{
		client:    client,
		bucket:    bucket,
		urlExpiry: urlExpiry,
		ins:       ins,
	}
}

func (b *Blob) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	ctx, span := b.ins.Tracer("exchange.outbound.blob").Start(ctx, "Store")
	defer span.End()

	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), storage.PutOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	url, err := b.client.PresignGet(ctx, b.bucket, key, b.urlExpiry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return url, nil
}

func (b *Blob) Fetch(ctx context.Context, key string) ([]byte, error) {
	ctx, span := b.ins.Tracer("exchange.outbound.blob").Start(ctx, "Fetch")
	defer span.End()

	rc, _, err := b.client.GetObject(ctx, b.bucket, key, storage.GetOptions{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return data, nil
}
