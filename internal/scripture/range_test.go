package scripture

import (
	"errors"
	"testing"
)

func TestExpandRange(t *testing.T) {
	verses, err := ExpandRange(Range{
		Book:         "John",
		StartChapter: 3,
		StartVerse:   16,
		EndChapter:   3,
		EndVerse:     17,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verses) != 2 {
		t.Fatalf("expected 2 verses, got %d", len(verses))
	}
	if verses[0].Book != "John" || verses[0].Chapter != 3 || verses[0].Verse != 16 {
		t.Errorf("unexpected first verse: %+v", verses[0])
	}
	if verses[1].Verse != 17 {
		t.Errorf("unexpected second verse: %+v", verses[1])
	}
}

func TestExpandRange_SingleVerse(t *testing.T) {
	// End fields omitted mean a one-verse range
	verses, err := ExpandRange(Range{Book: "Romans", StartChapter: 8, StartVerse: 28})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verses) != 1 || verses[0].Verse != 28 {
		t.Fatalf("unexpected expansion: %+v", verses)
	}
}

func TestExpandRange_Errors(t *testing.T) {
	tests := []struct {
		name string
		r    Range
	}{
		{
			name: "Unknown book",
			r:    Range{Book: "Opinions", StartChapter: 1, StartVerse: 1},
		},
		{
			name: "Chapter beyond book",
			r:    Range{Book: "Jude", StartChapter: 2, StartVerse: 1},
		},
		{
			name: "Verse beyond global bound",
			r:    Range{Book: "Psalms", StartChapter: 119, StartVerse: 1, EndVerse: 177},
		},
		{
			name: "Cross-chapter range",
			r:    Range{Book: "John", StartChapter: 3, StartVerse: 16, EndChapter: 4, EndVerse: 2},
		},
		{
			name: "Reversed range",
			r:    Range{Book: "John", StartChapter: 3, StartVerse: 17, EndVerse: 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExpandRange(tt.r); err == nil {
				t.Errorf("expected error for %+v", tt.r)
			}
		})
	}
}

func TestExpandRange_UnknownBookError(t *testing.T) {
	_, err := ExpandRange(Range{Book: "Nonexistent", StartChapter: 1, StartVerse: 1})
	if !errors.Is(err, ErrUnknownBook) {
		t.Fatalf("expected ErrUnknownBook, got %v", err)
	}
}

func TestValidateVerse(t *testing.T) {
	if err := ValidateVerse("Psalm 119", 1, 1); err == nil {
		t.Error("book name with trailing chapter should not resolve")
	}
	if err := ValidateVerse("psalms", 119, 176); err != nil {
		t.Errorf("longest chapter should validate: %v", err)
	}
	if err := ValidateVerse("Song of Songs", 1, 1); err != nil {
		t.Errorf("alias should resolve: %v", err)
	}
}

func TestChapterCount(t *testing.T) {
	if got := ChapterCount("Revelation"); got != 22 {
		t.Errorf("Revelation chapters = %d, want 22", got)
	}
	if got := ChapterCount("  JOHN "); got != 21 {
		t.Errorf("normalized lookup = %d, want 21", got)
	}
	if KnownBook("Unknown") {
		t.Error("unknown book should not be known")
	}
}
