package server

import (
	"fmt"
	"net/http"
	"time"
)

// StreamHandler serves the calibration preview as an MJPEG stream: the
// annotated camera frame with both segmentation masks side by side.
// Preview generation in the pipeline is enabled while at least one client
// is streaming.
type StreamHandler struct {
	pipeline Pipeline
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(p Pipeline) *StreamHandler {
	return &StreamHandler{pipeline: p}
}

// ServeHTTP streams MJPEG preview frames to the client.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.pipeline.SetPreviewEnabled(true)
	defer h.pipeline.SetPreviewEnabled(false)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var lastSeq uint64

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		preview := h.pipeline.Preview()
		if preview == nil || preview.Seq == lastSeq {
			time.Sleep(33 * time.Millisecond)
			continue
		}
		lastSeq = preview.Seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(preview.JPEG))
		w.Write(preview.JPEG)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
