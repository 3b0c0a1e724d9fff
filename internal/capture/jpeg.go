package capture

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Submission frame settings.
const (
	DefaultFrameWidth  = 320
	DefaultFrameHeight = 240
	DefaultQuality     = 70
)

// FrameSource produces encoded frames ready for upload.
type FrameSource interface {
	Capture(ctx context.Context) ([]byte, error)
}

// JPEGSource reads a frame from a Camera, downsizes it and encodes it as JPEG.
type JPEGSource struct {
	camera  Camera
	size    image.Point
	quality int
}

// NewJPEGSource returns a source producing 320x240 JPEGs at quality 70.
func NewJPEGSource(camera Camera) *JPEGSource {
	return &JPEGSource{
		camera:  camera,
		size:    image.Pt(DefaultFrameWidth, DefaultFrameHeight),
		quality: DefaultQuality,
	}
}

// WithSize overrides the output dimensions.
func (s *JPEGSource) WithSize(width, height int) *JPEGSource {
	if width > 0 && height > 0 {
		s.size = image.Pt(width, height)
	}
	return s
}

// WithQuality overrides the JPEG quality (1..100).
func (s *JPEGSource) WithQuality(q int) *JPEGSource {
	if q >= 1 && q <= 100 {
		s.quality = q
	}
	return s
}

// Capture grabs one frame and returns its JPEG bytes.
func (s *JPEGSource) Capture(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(*frame, &resized, s.size, 0, 0, gocv.InterpolationArea)
	if resized.Empty() {
		return nil, fmt.Errorf("resize frame: %w", ErrEmptyFrame)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, resized, []int{gocv.IMWriteJpegQuality, s.quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases C memory released by Close.
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
