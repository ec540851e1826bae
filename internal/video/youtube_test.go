package video

import (
	"testing"
)

func TestParseYouTubeURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantID    string
		wantStart int
		wantErr   bool
	}{
		{
			name:      "Short link with timestamp",
			url:       "https://youtu.be/abc123?t=90",
			wantID:    "abc123",
			wantStart: 90,
		},
		{
			name:      "Long form without timestamp",
			url:       "https://www.youtube.com/watch?v=abc123",
			wantID:    "abc123",
			wantStart: 0,
		},
		{
			name:      "Long form with timestamp",
			url:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42",
			wantID:    "dQw4w9WgXcQ",
			wantStart: 42,
		},
		{
			name:      "Short link without timestamp",
			url:       "https://youtu.be/xyz789",
			wantID:    "xyz789",
			wantStart: 0,
		},
		{
			name:    "Non-matching string",
			url:     "https://vimeo.com/12345",
			wantErr: true,
		},
		{
			name:    "Empty string",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseYouTubeURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref.VideoID != tt.wantID {
				t.Errorf("video id = %q, want %q", ref.VideoID, tt.wantID)
			}
			if ref.StartSeconds != tt.wantStart {
				t.Errorf("start seconds = %d, want %d", ref.StartSeconds, tt.wantStart)
			}
		})
	}
}

func TestFormatYouTubeURL(t *testing.T) {
	if got := FormatYouTubeURL("abc123", 90); got != "https://youtu.be/abc123?t=90" {
		t.Errorf("unexpected url: %s", got)
	}
	if got := FormatYouTubeURL("abc123", 0); got != "https://youtu.be/abc123" {
		t.Errorf("unexpected url: %s", got)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	ref, err := ParseYouTubeURL(FormatYouTubeURL("abc123", 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.VideoID != "abc123" || ref.StartSeconds != 7 {
		t.Errorf("round trip mismatch: %+v", ref)
	}
}
