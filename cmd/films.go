package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/holonet/catalog"
	"github.com/s0up4200/holonet/filter"
)

var (
	search     string
	sortBy     string
	order      string
	page       int
	pageSize   int
	filterExpr string
	preset     string
	details    bool
	crawl      bool

	compiler = filter.NewCompiler()
)

// filmsCmd groups the film browsing commands; all of them need a session
var filmsCmd = &cobra.Command{
	Use:               "films",
	Short:             "Browse films and their characters",
	PersistentPreRunE: requireSession,
}

// filmsListCmd represents the films list command
var filmsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List films",
	Long: `List films from the catalog. Search, sort and pagination are passed to the
server; --filter narrows the returned page locally with an expression, e.g.

  holonet films list --sort release_date --filter 'icontains(director, "lucas")'

With --json and --filter only the matching films are printed, as a JSON array,
since the server's count and page size describe the unfiltered page.`,
	Args: cobra.NoArgs,
	RunE: runFilmsList,
}

// filmsShowCmd represents the films show command
var filmsShowCmd = &cobra.Command{
	Use:   "show <film-id>",
	Short: "Show a film and its characters",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilmsShow,
}

// filmsCharactersCmd represents the films characters command
var filmsCharactersCmd = &cobra.Command{
	Use:   "characters <film-id>",
	Short: "List the characters of a film",
	Long: `List the characters appearing in a film. --filter narrows the list locally, e.g.

  holonet films characters 1 --filter 'gender == "female" or height > 190'

With --json and --filter only the matching characters are printed, as a JSON array.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilmsCharacters,
}

func init() {
	filmsCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON")

	filmsListCmd.Flags().StringVarP(&search, "search", "s", "", "search film titles")
	filmsListCmd.Flags().StringVar(&sortBy, "sort", "", "sort by release_date, title or episode_id")
	filmsListCmd.Flags().StringVar(&order, "order", "", "sort order: asc or desc")
	filmsListCmd.Flags().IntVar(&page, "page", 0, "page number")
	filmsListCmd.Flags().IntVar(&pageSize, "page-size", 0, "films per page (default from config)")
	filmsListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the returned page")
	filmsListCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a filter preset from config")
	filmsListCmd.Flags().BoolVar(&details, "details", false, "show director, release date and counts")
	filmsListCmd.Flags().BoolVar(&crawl, "crawl", false, "show an excerpt of the opening crawl")

	filmsCharactersCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the characters")

	filmsCmd.AddCommand(filmsListCmd)
	filmsCmd.AddCommand(filmsShowCmd)
	filmsCmd.AddCommand(filmsCharactersCmd)
	rootCmd.AddCommand(filmsCmd)
}

func runFilmsList(cmd *cobra.Command, args []string) error {
	params := catalog.ListFilmsParams{
		Search:   search,
		Sort:     catalog.SortBy(sortBy),
		Order:    catalog.SortOrder(order),
		Page:     page,
		PageSize: pageSize,
	}
	if params.PageSize == 0 {
		params.PageSize = cfg.Films.PageSize
	}

	if !params.Sort.Valid() {
		logger.Warn().Str("sort", sortBy).Msg("Unknown sort field, the server may ignore it")
	}
	if !params.Order.Valid() {
		logger.Warn().Str("order", order).Msg("Unknown sort order, the server may ignore it")
	}

	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	logger.Debug().
		Str("search", params.Search).
		Str("sort", sortBy).
		Str("order", order).
		Str("filter", expr).
		Msg("Listing films")

	films, err := client.ListFilms(cmd.Context(), params)
	if err != nil {
		return err
	}

	results := films.Results
	if expr != "" {
		f, err := compiler.CompileFilm(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		if results, err = f.Apply(results); err != nil {
			return err
		}
	}

	if jsonOut {
		if expr != "" {
			return printJSON(cmd.OutOrStdout(), results)
		}
		return printJSON(cmd.OutOrStdout(), films)
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFilmPage(results, films, catalog.FormatOptions{
		ShowDetails: details,
		ShowCrawl:   crawl,
	}))
	return nil
}

func runFilmsShow(cmd *cobra.Command, args []string) error {
	film, err := client.GetFilmDetails(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), struct {
			*catalog.Film
			CharacterList []catalog.Character `json:"character_list"`
		}{film.Film, film.Characters.Results})
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFilmDetails(film))
	return nil
}

func runFilmsCharacters(cmd *cobra.Command, args []string) error {
	chars, err := client.GetFilmCharacters(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	results := chars.Results
	if filterExpr != "" {
		f, err := compiler.CompileCharacter(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		if results, err = f.Apply(results); err != nil {
			return err
		}
	}

	if jsonOut {
		if filterExpr != "" {
			return printJSON(cmd.OutOrStdout(), results)
		}
		return printJSON(cmd.OutOrStdout(), chars)
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCharacters(chars.Film, results))
	return nil
}

// getFilterExpression determines the film filter to use.
// Priority: command line filter > preset > none
func getFilterExpression() (string, error) {
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expr, ok := cfg.Films.Presets[preset]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}
