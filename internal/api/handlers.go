package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"videosnap/internal/cache"
	"videosnap/internal/downloader"
	"videosnap/internal/media"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// resolveVideo resolves the video_id query parameter to a file path and
// writes the appropriate error response when resolution fails.
func (s *Server) resolveVideo(w http.ResponseWriter, r *http.Request) (string, bool) {
	videoID := r.URL.Query().Get("video_id")

	path, err := s.locator.Resolve(videoID)
	if err != nil {
		switch {
		case errors.Is(err, cache.ErrInvalidVideoID):
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("Invalid video_id %s", videoID),
			})
		case errors.Is(err, cache.ErrVideoNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("Cached video not found for video_id %s", videoID),
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Unable to resolve video path",
			})
		}
		return "", false
	}

	return path, true
}

// handleMetadata handles the /metadata endpoint
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolveVideo(w, r)
	if !ok {
		return
	}

	meta, err := s.prober.Probe(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Unable to retrieve video metadata",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

// handleThumbnail handles the /thumbnail endpoint
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	timestampStr := r.URL.Query().Get("timestamp")
	timestamp, err := strconv.ParseFloat(timestampStr, 64)
	if timestampStr == "" || err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing timestamp parameter",
		})
		return
	}

	path, ok := s.resolveVideo(w, r)
	if !ok {
		return
	}

	meta, err := s.prober.Probe(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Unable to retrieve video metadata",
			"message": err.Error(),
		})
		return
	}

	frame, err := s.extractor.Extract(r.Context(), path, timestamp, meta.Duration)
	if err != nil {
		if errors.Is(err, media.ErrTimestampOutOfBounds) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "Timestamp out of video duration bounds",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Error generating thumbnail",
			"details": err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(frame)
}

// handleVideo handles the /video endpoint
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolveVideo(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, path)
}

// setVideoRequest is the /set_video request body
type setVideoRequest struct {
	YoutubeURL string `json:"youtube_url"`
}

// handleSetVideo handles the /set_video endpoint
func (s *Server) handleSetVideo(w http.ResponseWriter, r *http.Request) {
	var req setVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.YoutubeURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "No YouTube URL provided",
		})
		return
	}

	videoID, err := s.downloader.Download(r.Context(), req.YoutubeURL)
	if err != nil {
		if errors.Is(err, downloader.ErrVideoIDNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "Unable to extract video id",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Error downloading video",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Video updated successfully",
		"video_id": videoID,
	})
}
