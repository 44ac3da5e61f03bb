// Package vision adapts the Cloud Vision v1 API to the pipeline's label
// service port.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	gvision "google.golang.org/api/vision/v1"

	"github.com/GoCodeAlone/imgreport/pipeline"
)

// Annotator implements pipeline.LabelService over a Vision service.
type Annotator struct {
	svc *gvision.Service
}

var _ pipeline.LabelService = (*Annotator)(nil)

// NewAnnotator wraps an initialized Vision service.
func NewAnnotator(svc *gvision.Service) *Annotator {
	return &Annotator{svc: svc}
}

// Annotate requests label detection capped at maxLabels and returns the
// annotations in the service's own ranking.
func (a *Annotator) Annotate(ctx context.Context, data []byte, maxLabels int) ([]pipeline.Label, error) {
	req := &gvision.BatchAnnotateImagesRequest{
		Requests: []*gvision.AnnotateImageRequest{{
			Image: &gvision.Image{Content: base64.StdEncoding.EncodeToString(data)},
			Features: []*gvision.Feature{{
				Type:       "LABEL_DETECTION",
				MaxResults: int64(maxLabels),
			}},
		}},
	}

	rsp, err := a.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to annotate image: %w", err)
	}
	if len(rsp.Responses) == 0 {
		return nil, nil
	}

	r := rsp.Responses[0]
	if r.Error != nil {
		return nil, fmt.Errorf("annotation failed: %s", r.Error.Message)
	}

	labels := make([]pipeline.Label, 0, len(r.LabelAnnotations))
	for _, l := range r.LabelAnnotations {
		labels = append(labels, pipeline.Label{
			Description: l.Description,
			Score:       l.Score,
		})
	}
	return labels, nil
}
