package pipeline

import "context"

// FileRef identifies one file-store match for a name query.
type FileRef struct {
	ID           string
	Name         string
	MIMEType     string
	ModifiedTime string
}

// LatLng is an embedded image geolocation, degrees.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// Geolocation is the outcome of resolving a file's embedded location.
// MapURL is empty whenever Present is false.
type Geolocation struct {
	Present bool
	MapURL  string
}

// SourceFile is the fetched input object. Immutable once produced.
type SourceFile struct {
	Name         string
	MIMEType     string
	ModifiedTime string
	Data         []byte
	Geo          Geolocation
}

// ArchiveReceipt confirms a successful object-store upload.
type ArchiveReceipt struct {
	Name   string
	Bucket string
}

// Label is one ranked annotation from the label service.
type Label struct {
	Description string
	Score       float64
}

// FileStore is the remote file store holding the source object.
type FileStore interface {
	// Find returns files whose name exactly matches, in store order.
	Find(ctx context.Context, name string) ([]FileRef, error)
	// Download returns the binary content of the identified file.
	Download(ctx context.Context, id string) ([]byte, error)
	// ImageLocation returns the file's embedded geolocation, or nil if
	// the file carries no image metadata or no location field.
	ImageLocation(ctx context.Context, id string) (*LatLng, error)
}

// ObjectStore is the remote archival store the binary is copied to.
type ObjectStore interface {
	Insert(ctx context.Context, bucket, name string, data []byte, mimeType string) (*ArchiveReceipt, error)
}

// LabelService returns ranked descriptive labels for an image.
// The returned order is service-defined and must not be re-sorted.
type LabelService interface {
	Annotate(ctx context.Context, data []byte, maxLabels int) ([]Label, error)
}

// Describer produces a free-text description of an image.
type Describer interface {
	Describe(ctx context.Context, data []byte) (string, error)
}

// RowAppender appends one row to the remote tabular store and reports
// how many cells were written.
type RowAppender interface {
	AppendRow(ctx context.Context, sheetID string, row []any) (int64, error)
}
