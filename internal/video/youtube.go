package video

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidURL means the string is not a recognizable YouTube link
var ErrInvalidURL = errors.New("invalid YouTube URL")

// Recognizes both long-form watch URLs and youtu.be short links, with an
// optional t= start offset in seconds
var youtubePattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)(?:[&?]t=(\d+))?`)

// Ref is a parsed video reference
type Ref struct {
	VideoID      string `json:"video_id"`
	StartSeconds int    `json:"start_seconds"`
}

// ParseYouTubeURL extracts the video id and start offset from a YouTube URL
func ParseYouTubeURL(raw string) (*Ref, error) {
	match := youtubePattern.FindStringSubmatch(raw)
	if match == nil {
		return nil, ErrInvalidURL
	}

	start := 0
	if match[2] != "" {
		// \d+ guarantees a parseable number
		start, _ = strconv.Atoi(match[2])
	}

	return &Ref{VideoID: match[1], StartSeconds: start}, nil
}

// FormatYouTubeURL builds the canonical short link for a stored reference
func FormatYouTubeURL(videoID string, startSeconds int) string {
	url := fmt.Sprintf("https://youtu.be/%s", videoID)
	if startSeconds > 0 {
		return fmt.Sprintf("%s?t=%d", url, startSeconds)
	}
	return url
}
