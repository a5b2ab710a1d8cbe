package models

// Config represents the application configuration
type Config struct {
	WebServerPort      int    `json:"webServerPort"`
	DefaultVideoPath   string `json:"defaultVideoPath"`
	CachePath          string `json:"cachePath"`
	FfmpegPath         string `json:"ffmpegPath"`
	FfprobePath        string `json:"ffprobePath"`
	YtdlPath           string `json:"ytdlPath"`
	YtdlAdditionalArgs string `json:"ytdlAdditionalArgs"`
	YtdlMaxRes         int    `json:"ytdlMaxRes"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		WebServerPort:      9696,
		DefaultVideoPath:   "static/video.mp4",
		CachePath:          "static/cache",
		FfmpegPath:         "ffmpeg",
		FfprobePath:        "ffprobe",
		YtdlPath:           "yt-dlp",
		YtdlAdditionalArgs: "",
		YtdlMaxRes:         1080,
	}
}
