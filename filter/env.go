package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/s0up4200/holonet/catalog"
)

// createHelperFunctions returns the functions available in every expression
func createHelperFunctions() map[string]any {
	return map[string]any{
		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"now": time.Now,
		// String helpers, case-insensitive. contains, startsWith and endsWith
		// are expr operators and stay case-sensitive.
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefix": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffix": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

// filmEnv exposes a film's fields under their API names
func filmEnv(f catalog.Film) map[string]any {
	released := f.ReleaseTime()
	return map[string]any{
		"id":            f.ID,
		"title":         f.Title,
		"episode_id":    f.EpisodeID,
		"director":      f.Director,
		"producer":      f.Producer,
		"release_date":  f.ReleaseDate,
		"released":      released,
		"year":          released.Year(),
		"opening_crawl": f.OpeningCrawl,
		"characters":    f.Characters,
		"planets":       f.Planets,
		"starships":     f.Starships,
		"vehicles":      f.Vehicles,
		"species":       f.Species,
	}
}

// characterEnv exposes a character's fields under their API names.
// Height and mass are numeric; "unknown" reads as 0.
func characterEnv(c catalog.Character) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"height":     parseMeasure(c.Height),
		"mass":       parseMeasure(c.Mass),
		"hair_color": c.HairColor,
		"skin_color": c.SkinColor,
		"eye_color":  c.EyeColor,
		"birth_year": c.BirthYear,
		"gender":     c.Gender,
		"homeworld":  c.Homeworld,
		"films":      c.Films,
		"species":    c.Species,
		"vehicles":   c.Vehicles,
		"starships":  c.Starships,
	}
}

// parseMeasure parses values such as "172" or "1,358"
func parseMeasure(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
