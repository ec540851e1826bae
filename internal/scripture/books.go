package scripture

import "strings"

// MaxVersesPerChapter is the global verse-number bound. Psalm 119 is the
// longest chapter in the canon at 176 verses; anything above is invalid
// regardless of book.
const MaxVersesPerChapter = 176

// chapterCounts maps canonical book names to their chapter counts
var chapterCounts = map[string]int{
	"genesis": 50, "exodus": 40, "leviticus": 27, "numbers": 36,
	"deuteronomy": 34, "joshua": 24, "judges": 21, "ruth": 4,
	"1 samuel": 31, "2 samuel": 24, "1 kings": 22, "2 kings": 25,
	"1 chronicles": 29, "2 chronicles": 36, "ezra": 10, "nehemiah": 13,
	"esther": 10, "job": 42, "psalms": 150, "proverbs": 31,
	"ecclesiastes": 12, "song of solomon": 8, "isaiah": 66, "jeremiah": 52,
	"lamentations": 5, "ezekiel": 48, "daniel": 12, "hosea": 14,
	"joel": 3, "amos": 9, "obadiah": 1, "jonah": 4,
	"micah": 7, "nahum": 3, "habakkuk": 3, "zephaniah": 3,
	"haggai": 2, "zechariah": 14, "malachi": 4,
	"matthew": 28, "mark": 16, "luke": 24, "john": 21,
	"acts": 28, "romans": 16, "1 corinthians": 16, "2 corinthians": 13,
	"galatians": 6, "ephesians": 6, "philippians": 4, "colossians": 4,
	"1 thessalonians": 5, "2 thessalonians": 3, "1 timothy": 6,
	"2 timothy": 4, "titus": 3, "philemon": 1, "hebrews": 13,
	"james": 5, "1 peter": 5, "2 peter": 3, "1 john": 5,
	"2 john": 1, "3 john": 1, "jude": 1, "revelation": 22,
}

// aliases maps common alternate spellings to canonical names
var aliases = map[string]string{
	"psalm":         "psalms",
	"song of songs": "song of solomon",
	"canticles":     "song of solomon",
}

func normalize(book string) string {
	name := strings.ToLower(strings.TrimSpace(book))
	name = strings.Join(strings.Fields(name), " ")
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// KnownBook reports whether the book exists in the canon
func KnownBook(book string) bool {
	_, ok := chapterCounts[normalize(book)]
	return ok
}

// ChapterCount returns the number of chapters in a book, or 0 if unknown
func ChapterCount(book string) int {
	return chapterCounts[normalize(book)]
}
