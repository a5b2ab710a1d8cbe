package models

// VideoMetadata holds the normalized stream and container metadata for a
// video file, as reported by the media inspection tool.
type VideoMetadata struct {
	Codec     string  `json:"codec"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Duration  float64 `json:"duration"`
	Framerate float64 `json:"framerate"`
}
