// Package gcs adapts Google Cloud Storage to the pipeline's object store
// port.
package gcs

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/GoCodeAlone/imgreport/pipeline"
)

// bucketHandle abstracts a GCS bucket handle for testability.
type bucketHandle interface {
	Object(name string) objectHandle
}

// objectHandle abstracts a GCS object handle.
type objectHandle interface {
	NewWriter(ctx context.Context) objectWriter
}

// objectWriter abstracts a GCS object writer.
type objectWriter interface {
	io.WriteCloser
	SetContentType(ct string)
	Attrs() *storage.ObjectAttrs
}

// realBucketHandle wraps *storage.BucketHandle to satisfy bucketHandle.
type realBucketHandle struct{ bh *storage.BucketHandle }

func (r *realBucketHandle) Object(name string) objectHandle {
	return &realObjectHandle{r.bh.Object(name)}
}

// realObjectHandle wraps *storage.ObjectHandle to satisfy objectHandle.
type realObjectHandle struct{ oh *storage.ObjectHandle }

func (r *realObjectHandle) NewWriter(ctx context.Context) objectWriter {
	return &realObjectWriter{r.oh.NewWriter(ctx)}
}

// realObjectWriter wraps *storage.Writer to satisfy objectWriter.
type realObjectWriter struct{ w *storage.Writer }

func (r *realObjectWriter) Write(p []byte) (int, error) { return r.w.Write(p) }

func (r *realObjectWriter) Close() error { return r.w.Close() }

func (r *realObjectWriter) SetContentType(ct string) { r.w.ContentType = ct }

func (r *realObjectWriter) Attrs() *storage.ObjectAttrs { return r.w.Attrs() }

// Archive implements pipeline.ObjectStore over a GCS client.
type Archive struct {
	client     *storage.Client
	testBucket bucketHandle // non-nil only in tests
}

var _ pipeline.ObjectStore = (*Archive)(nil)

// NewArchive wraps an initialized GCS client.
func NewArchive(client *storage.Client) *Archive {
	return &Archive{client: client}
}

// setBucketHandle injects a bucketHandle, used in tests to avoid real GCS
// calls.
func (a *Archive) setBucketHandle(bh bucketHandle) { a.testBucket = bh }

// getBucket returns the bucket handle, preferring the injected test handle.
func (a *Archive) getBucket(bucket string) bucketHandle {
	if a.testBucket != nil {
		return a.testBucket
	}
	return &realBucketHandle{a.client.Bucket(bucket)}
}

// Insert uploads one object and returns the store-confirmed name and
// bucket.
func (a *Archive) Insert(ctx context.Context, bucket, name string, data []byte, mimeType string) (*pipeline.ArchiveReceipt, error) {
	if a.client == nil && a.testBucket == nil {
		return nil, fmt.Errorf("GCS client not initialized")
	}

	w := a.getBucket(bucket).Object(name).NewWriter(ctx)
	w.SetContentType(mimeType)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write object %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer for object %q: %w", name, err)
	}

	attrs := w.Attrs()
	if attrs == nil {
		return nil, fmt.Errorf("no attributes returned for object %q", name)
	}
	return &pipeline.ArchiveReceipt{Name: attrs.Name, Bucket: attrs.Bucket}, nil
}
