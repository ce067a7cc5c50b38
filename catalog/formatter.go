package catalog

import (
	"fmt"
	"strings"
)

// crawlExcerptRunes is how much of the opening crawl a film card shows
const crawlExcerptRunes = 150

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
	ShowCrawl   bool
}

// ConsoleFormatter provides console output formatting for films and characters
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatFilmPage formats one page of films for console display
func (f *ConsoleFormatter) FormatFilmPage(films []Film, page *Page[Film], options FormatOptions) string {
	if len(films) == 0 {
		return "No films found"
	}

	var sb strings.Builder

	sb.WriteString("\nFilm")
	if len(films) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(films))

	for i, film := range films {
		isLast := i == len(films)-1
		f.formatFilm(&sb, film, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	if page != nil && page.TotalPages() > 1 {
		fmt.Fprintf(&sb, "\nPage %d of %d (%d films total)\n", page.Page, page.TotalPages(), page.Count)
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatFilmDetails formats a film together with its characters
func (f *ConsoleFormatter) FormatFilmDetails(details *FilmDetails) string {
	var sb strings.Builder

	film := details.Film
	fmt.Fprintf(&sb, "\n%s\n", film.String())
	sb.WriteString(strings.Repeat("━", 60) + "\n")
	fmt.Fprintf(&sb, "Director:     %s\n", film.Director)
	fmt.Fprintf(&sb, "Producer:     %s\n", film.Producer)
	fmt.Fprintf(&sb, "Released:     %s\n", film.ReleaseDate)
	fmt.Fprintf(&sb, "Planets: %d | Starships: %d | Vehicles: %d | Species: %d\n",
		len(film.Planets), len(film.Starships), len(film.Vehicles), len(film.Species))

	if crawl := strings.TrimSpace(film.OpeningCrawl); crawl != "" {
		sb.WriteString("\n")
		for _, line := range strings.Split(crawl, "\n") {
			fmt.Fprintf(&sb, "  %s\n", strings.TrimRight(line, "\r"))
		}
	}

	if details.Characters != nil {
		sb.WriteString(f.FormatCharacters(details.Characters.Film, details.Characters.Results))
	} else {
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatCharacters formats the characters of a film
func (f *ConsoleFormatter) FormatCharacters(film FilmSummary, characters []Character) string {
	if len(characters) == 0 {
		return fmt.Sprintf("\nNo characters found for %s\n", film.Title)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nCharacters in %s (%d):\n\n", film.Title, len(characters))

	for i, ch := range characters {
		isLast := i == len(characters)-1
		prefix := "├"
		if isLast {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %s [%s]\n", prefix, ch.Name, ch.ID)

		indent := "│   "
		if isLast {
			indent = "    "
		}

		var parts []string
		if ch.Gender != "" && ch.Gender != "n/a" {
			parts = append(parts, "Gender: "+ch.Gender)
		}
		if ch.BirthYear != "" && ch.BirthYear != "unknown" {
			parts = append(parts, "Born: "+ch.BirthYear)
		}
		if ch.Height != "" && ch.Height != "unknown" {
			parts = append(parts, "Height: "+ch.Height+"cm")
		}
		if ch.Mass != "" && ch.Mass != "unknown" {
			parts = append(parts, "Mass: "+ch.Mass+"kg")
		}
		if len(parts) > 0 {
			fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(parts, " | "))
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatFilm formats a single film entry
func (f *ConsoleFormatter) formatFilm(sb *strings.Builder, film Film, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	year := ""
	if released := film.ReleaseTime(); !released.IsZero() {
		year = fmt.Sprintf(" (%d)", released.Year())
	}
	fmt.Fprintf(sb, "%s── %s%s [%s]\n", prefix, film.String(), year, film.ID)

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if options.ShowDetails {
		fmt.Fprintf(sb, "%sDirector: %s | Released: %s\n", indent, film.Director, film.ReleaseDate)
		fmt.Fprintf(sb, "%sCharacters: %d | Planets: %d\n", indent, len(film.Characters), len(film.Planets))
	}

	if options.ShowCrawl && film.OpeningCrawl != "" {
		crawl := strings.Join(strings.Fields(film.OpeningCrawl), " ")
		fmt.Fprintf(sb, "%s%s\n", indent, excerpt(crawl, crawlExcerptRunes))
	}
}

// excerpt shortens s to at most n runes, marking the cut with an ellipsis
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimRight(string(runes[:n]), " ") + "..."
}
