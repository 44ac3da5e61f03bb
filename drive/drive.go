// Package drive adapts the Google Drive v3 API to the pipeline's file
// store port.
package drive

import (
	"context"
	"fmt"
	"io"

	gdrive "google.golang.org/api/drive/v3"

	"github.com/GoCodeAlone/imgreport/pipeline"
)

// Store implements pipeline.FileStore over a Drive service.
type Store struct {
	svc *gdrive.Service
}

var _ pipeline.FileStore = (*Store)(nil)

// NewStore wraps an initialized Drive service.
func NewStore(svc *gdrive.Service) *Store {
	return &Store{svc: svc}
}

// Find returns files whose name exactly matches, in Drive's own order.
func (s *Store) Find(ctx context.Context, name string) ([]pipeline.FileRef, error) {
	rsp, err := s.svc.Files.List().
		Q(fmt.Sprintf("name='%s'", name)).
		Fields("files(id,name,mimeType,modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list files named %q: %w", name, err)
	}

	refs := make([]pipeline.FileRef, 0, len(rsp.Files))
	for _, f := range rsp.Files {
		refs = append(refs, pipeline.FileRef{
			ID:           f.Id,
			Name:         f.Name,
			MIMEType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
		})
	}
	return refs, nil
}

// Download retrieves the binary content of the identified file.
func (s *Store) Download(ctx context.Context, id string) ([]byte, error) {
	rsp, err := s.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %q: %w", id, err)
	}
	defer func() { _ = rsp.Body.Close() }()

	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", id, err)
	}
	return data, nil
}

// ImageLocation returns the file's embedded geolocation, or nil when the
// file has no image metadata or the metadata carries no location.
func (s *Store) ImageLocation(ctx context.Context, id string) (*pipeline.LatLng, error) {
	f, err := s.svc.Files.Get(id).
		Fields("imageMediaMetadata").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata for file %q: %w", id, err)
	}

	md := f.ImageMediaMetadata
	if md == nil || md.Location == nil {
		return nil, nil
	}
	return &pipeline.LatLng{
		Latitude:  md.Location.Latitude,
		Longitude: md.Location.Longitude,
	}, nil
}
