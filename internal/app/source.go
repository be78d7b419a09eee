package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/sinais/internal/capture"
	"github.com/ayusman/sinais/internal/detector"
)

// Source produces the hands visible at one sampling instant. An empty slice
// means nothing is visible.
type Source interface {
	Hands(ctx context.Context) ([]detector.HandLandmarks, error)
}

// FrameSource exposes the most recent camera frame for streaming.
type FrameSource interface {
	// LatestFrame returns a copy of the last frame read. The caller closes it.
	LatestFrame() (gocv.Mat, bool)
}

// CameraSource reads a frame from a camera and runs hand detection on it.
// The last frame is kept so the stream endpoint can draw over it.
type CameraSource struct {
	camera   capture.Camera
	detector detector.Detector

	mu     sync.Mutex
	latest gocv.Mat
	has    bool
}

// NewCameraSource combines a camera and a detector into a Source.
func NewCameraSource(camera capture.Camera, d detector.Detector) *CameraSource {
	return &CameraSource{camera: camera, detector: d}
}

// Open opens the camera if needed.
func (s *CameraSource) Open() error {
	if s.camera.IsOpen() {
		return nil
	}
	return s.camera.Open()
}

// Hands reads one frame and returns the detected hands in frame pixels.
func (s *CameraSource) Hands(ctx context.Context) ([]detector.HandLandmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	s.keep(frame)

	hands, err := s.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}
	return hands, nil
}

func (s *CameraSource) keep(frame *gocv.Mat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.has {
		s.latest.Close()
	}
	s.latest = frame.Clone()
	s.has = true
}

// LatestFrame returns a copy of the last frame read.
func (s *CameraSource) LatestFrame() (gocv.Mat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.has {
		return gocv.Mat{}, false
	}
	return s.latest.Clone(), true
}

// Close releases the camera, the detector and the retained frame.
func (s *CameraSource) Close() error {
	s.mu.Lock()
	if s.has {
		s.latest.Close()
		s.has = false
	}
	s.mu.Unlock()

	var errs []error
	if err := s.camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	if err := s.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close detector: %w", err))
	}
	return errors.Join(errs...)
}
