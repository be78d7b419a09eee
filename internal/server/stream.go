package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/sinais/internal/app"
	"github.com/ayusman/sinais/internal/render"
)

const defaultStreamInterval = 66 * time.Millisecond // ~15 FPS

// StreamHandler serves the latest camera frame as MJPEG, annotated with the
// tracked hand and phrase progress when a driver is available.
type StreamHandler struct {
	frames   app.FrameSource
	driver   Driver
	interval time.Duration
}

// NewStreamHandler creates a StreamHandler. driver may be nil, in which case
// frames are streamed without an overlay.
func NewStreamHandler(frames app.FrameSource, driver Driver, interval time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	return &StreamHandler{frames: frames, driver: driver, interval: interval}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		jpeg, ok := h.encode()
		if !ok {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func (h *StreamHandler) encode() ([]byte, bool) {
	frame, ok := h.frames.LatestFrame()
	if !ok {
		return nil, false
	}
	defer frame.Close()

	img := frame
	if h.driver != nil {
		drawn := render.Draw(frame, overlayFor(h.driver.Progress()))
		defer drawn.Close()
		img = drawn
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, false
	}
	defer buf.Close()

	// GetBytes aliases C memory released by Close.
	return append([]byte(nil), buf.GetBytes()...), true
}

func overlayFor(p app.Progress) render.Overlay {
	o := render.Overlay{
		Complete: p.Sequence.Complete,
		Accepted: make([]string, len(p.Sequence.Accepted)),
	}
	if p.HandVisible {
		o.Hand = p.Hand
	}
	if p.HasStable {
		o.Stable = p.Stable.String()
	}
	if !p.Sequence.Complete {
		o.Next = p.Sequence.Next.String()
	}
	for i, l := range p.Sequence.Accepted {
		o.Accepted[i] = l.String()
	}
	return o
}
