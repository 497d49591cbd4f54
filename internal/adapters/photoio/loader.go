// Package photoio loads photographs and prepares them for display:
// orientation is fixed from EXIF metadata and oversized images are
// downsampled so match-ups render quickly.
package photoio

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/h2non/bimg"
)

// defaultMaxEdge bounds the long edge of a prepared photo, in pixels.
const defaultMaxEdge = 800

// Loader reads, rotates and downsamples photos via libvips.
type Loader struct {
	maxEdge int
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithMaxEdge sets the pixel bound for a prepared photo's long edge.
func WithMaxEdge(maxEdge int) Option {
	return func(l *Loader) {
		if maxEdge > 0 {
			l.maxEdge = maxEdge
		}
	}
}

// NewLoader creates a loader with configuration options applied.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{maxEdge: defaultMaxEdge}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Prepare loads the photo, applies the EXIF orientation and downsamples it
// to the configured bound, returning the prepared dimensions. A missing or
// unreadable file yields ErrPhotoUnavailable so a ranking run can fail fast
// before any match-up is scheduled.
func (l *Loader) Prepare(ctx context.Context, filename string) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, fmt.Errorf("prepare %s: %w", filename, err)
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return 0, 0, fmt.Errorf("%w: %s", ErrPhotoUnavailable, filename)
		}
		return 0, 0, fmt.Errorf("read %s: %w", filename, err)
	}

	rotated, err := bimg.NewImage(raw).AutoRotate()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrNotAnImage, filename, err)
	}

	img := bimg.NewImage(rotated)
	size, err := img.Size()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrNotAnImage, filename, err)
	}

	width, height := size.Width, size.Height
	if longEdge := max(width, height); longEdge > l.maxEdge {
		scale := float64(l.maxEdge) / float64(longEdge)
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
		if _, err := img.Resize(width, height); err != nil {
			return 0, 0, fmt.Errorf("downsample %s: %w", filename, err)
		}
	}

	return width, height, nil
}
