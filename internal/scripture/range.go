package scripture

import (
	"errors"
	"fmt"
)

// ErrUnknownBook means the referenced book is not in the canon
var ErrUnknownBook = errors.New("unknown book")

// Range is an inclusive span of verses as submitted by a user. Zero
// EndChapter/EndVerse mean "same as start".
type Range struct {
	Book         string
	StartChapter int
	StartVerse   int
	EndChapter   int
	EndVerse     int
	Text         string
}

// VerseRef is a single (book, chapter, verse) tuple produced by expansion
type VerseRef struct {
	Book    string
	Chapter int
	Verse   int
	Text    string
}

// ValidateVerse bounds-checks one verse reference against the canon table
func ValidateVerse(book string, chapter, verse int) error {
	chapters := ChapterCount(book)
	if chapters == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownBook, book)
	}
	if chapter < 1 || chapter > chapters {
		return fmt.Errorf("%s has %d chapters, got chapter %d", book, chapters, chapter)
	}
	if verse < 1 || verse > MaxVersesPerChapter {
		return fmt.Errorf("verse %d out of bounds (1-%d)", verse, MaxVersesPerChapter)
	}
	return nil
}

// ExpandRange expands an inclusive range into individual verse tuples.
// Ranges that cross chapter boundaries are rejected: expanding an
// intermediate chapter would require guessing its length, which is exactly
// the unbounded-sentinel behavior this check replaces. Clients submit one
// range per chapter instead.
func ExpandRange(r Range) ([]VerseRef, error) {
	endChapter := r.EndChapter
	if endChapter == 0 {
		endChapter = r.StartChapter
	}
	endVerse := r.EndVerse
	if endVerse == 0 {
		endVerse = r.StartVerse
	}

	if err := ValidateVerse(r.Book, r.StartChapter, r.StartVerse); err != nil {
		return nil, err
	}
	if endChapter != r.StartChapter {
		return nil, fmt.Errorf("range spans chapters %d-%d; submit one range per chapter", r.StartChapter, endChapter)
	}
	if err := ValidateVerse(r.Book, endChapter, endVerse); err != nil {
		return nil, err
	}
	if endVerse < r.StartVerse {
		return nil, fmt.Errorf("range end %d before start %d", endVerse, r.StartVerse)
	}

	verses := make([]VerseRef, 0, endVerse-r.StartVerse+1)
	for v := r.StartVerse; v <= endVerse; v++ {
		verses = append(verses, VerseRef{
			Book:    r.Book,
			Chapter: r.StartChapter,
			Verse:   v,
			Text:    r.Text,
		})
	}

	return verses, nil
}
