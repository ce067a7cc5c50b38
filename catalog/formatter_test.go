package catalog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatFilmPage(t *testing.T) {
	f := NewConsoleFormatter()

	assert.Equal(t, "No films found", f.FormatFilmPage(nil, nil, FormatOptions{}))

	films := sampleFilms()
	page := &Page[Film]{Count: 4, Page: 1, PageSize: 2, Results: films}
	out := f.FormatFilmPage(films, page, FormatOptions{ShowDetails: true})

	assert.Contains(t, out, "Films (2):")
	assert.Contains(t, out, "├── Episode 4: A New Hope (1977) [1]")
	assert.Contains(t, out, "╰── Episode 5: The Empire Strikes Back (1980) [2]")
	assert.Contains(t, out, "Director: George Lucas | Released: 1977-05-25")
	assert.Contains(t, out, "Page 1 of 2 (4 films total)")
}

func TestFormatFilmPageCrawl(t *testing.T) {
	f := NewConsoleFormatter()
	films := sampleFilms()

	out := f.FormatFilmPage(films, nil, FormatOptions{})
	assert.NotContains(t, out, "It is a period of civil war.")

	out = f.FormatFilmPage(films, nil, FormatOptions{ShowCrawl: true})
	assert.Contains(t, out, "│   It is a period of civil war. Rebel spaceships")
	assert.NotContains(t, out, "\r\n")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "exactly10!", excerpt("exactly10!", 10))
	assert.Equal(t, "cut here...", excerpt("cut here and not further", 9))

	// multi-byte runes are never split
	got := excerpt("Ténèbres de l'Empire", 3)
	assert.Equal(t, "Tén...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestFormatFilmDetails(t *testing.T) {
	f := NewConsoleFormatter()
	film := sampleFilms()[0]

	out := f.FormatFilmDetails(&FilmDetails{
		Film: &film,
		Characters: &FilmCharacters{
			Film: FilmSummary{ID: "1", Title: "A New Hope", EpisodeID: 4},
			Page: Page[Character]{Results: []Character{
				{ID: "1", Name: "Luke Skywalker", Gender: "male", BirthYear: "19BBY", Height: "172", Mass: "77"},
				{ID: "2", Name: "C-3PO", Gender: "n/a", Height: "unknown"},
			}},
		},
	})

	assert.True(t, strings.HasPrefix(out, "\nEpisode 4: A New Hope\n"))
	assert.Contains(t, out, "It is a period of civil war.")
	assert.Contains(t, out, "Characters in A New Hope (2):")
	assert.Contains(t, out, "Gender: male | Born: 19BBY | Height: 172cm | Mass: 77kg")
	assert.NotContains(t, out, "Gender: n/a")
}

func TestFormatCharactersEmpty(t *testing.T) {
	out := NewConsoleFormatter().FormatCharacters(FilmSummary{Title: "A New Hope"}, nil)
	assert.Contains(t, out, "No characters found for A New Hope")
}

func TestPage(t *testing.T) {
	tests := []struct {
		name      string
		page      Page[Film]
		wantPages int
		wantMore  bool
	}{
		{"empty", Page[Film]{}, 0, false},
		{"single page", Page[Film]{Count: 6, Page: 1, PageSize: 10}, 1, false},
		{"more pages", Page[Film]{Count: 6, Page: 1, PageSize: 4}, 2, true},
		{"last page", Page[Film]{Count: 6, Page: 2, PageSize: 4}, 2, false},
		{"unknown page size", Page[Film]{Count: 6, Page: 1}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPages, tt.page.TotalPages())
			assert.Equal(t, tt.wantMore, tt.page.HasMore())
		})
	}
}

func TestSortValidity(t *testing.T) {
	assert.True(t, SortBy("").Valid())
	assert.True(t, SortTitle.Valid())
	assert.False(t, SortBy("director").Valid())
	assert.True(t, OrderDesc.Valid())
	assert.False(t, SortOrder("up").Valid())
}
