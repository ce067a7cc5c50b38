package catalog

import (
	"fmt"
	"time"
)

// SortBy is a film listing sort field
type SortBy string

const (
	// SortReleaseDate sorts films by release date
	SortReleaseDate SortBy = "release_date"
	// SortTitle sorts films by title
	SortTitle SortBy = "title"
	// SortEpisode sorts films by episode index
	SortEpisode SortBy = "episode_id"
)

// Valid reports whether s is empty or a sort field the server understands
func (s SortBy) Valid() bool {
	switch s {
	case "", SortReleaseDate, SortTitle, SortEpisode:
		return true
	}
	return false
}

// SortOrder is the direction of a film listing sort
type SortOrder string

const (
	// OrderAsc sorts ascending
	OrderAsc SortOrder = "asc"
	// OrderDesc sorts descending
	OrderDesc SortOrder = "desc"
)

// Valid reports whether o is empty, asc or desc
func (o SortOrder) Valid() bool {
	return o == "" || o == OrderAsc || o == OrderDesc
}

// ListFilmsParams holds the optional query parameters of a film listing.
// Zero values are not sent.
type ListFilmsParams struct {
	Search   string
	Sort     SortBy
	Order    SortOrder
	Page     int
	PageSize int
}

// LoginRequest is the body posted to the login endpoint
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   *int   `json:"expires_in,omitempty"`
}

// HealthStatus is the liveness probe payload
type HealthStatus struct {
	Status string `json:"status"`
}

// Film represents a film in the catalog
type Film struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	EpisodeID    int      `json:"episode_id"`
	Director     string   `json:"director"`
	Producer     string   `json:"producer"`
	ReleaseDate  string   `json:"release_date"`
	OpeningCrawl string   `json:"opening_crawl"`
	Created      string   `json:"created,omitempty"`
	Edited       string   `json:"edited,omitempty"`
	Characters   []string `json:"characters"`
	Planets      []string `json:"planets"`
	Starships    []string `json:"starships"`
	Vehicles     []string `json:"vehicles"`
	Species      []string `json:"species"`
	URL          string   `json:"url,omitempty"`
}

// ReleaseTime parses the release date, returning the zero time if it is malformed
func (f *Film) ReleaseTime() time.Time {
	t, err := time.Parse("2006-01-02", f.ReleaseDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// String returns the display title of the film
func (f *Film) String() string {
	return fmt.Sprintf("Episode %d: %s", f.EpisodeID, f.Title)
}

// Character represents a character appearing in one or more films
type Character struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Height    string   `json:"height"`
	Mass      string   `json:"mass"`
	HairColor string   `json:"hair_color"`
	SkinColor string   `json:"skin_color"`
	EyeColor  string   `json:"eye_color"`
	BirthYear string   `json:"birth_year"`
	Gender    string   `json:"gender"`
	Homeworld string   `json:"homeworld,omitempty"`
	Films     []string `json:"films"`
	Species   []string `json:"species"`
	Vehicles  []string `json:"vehicles"`
	Starships []string `json:"starships"`
	Created   string   `json:"created,omitempty"`
	Edited    string   `json:"edited,omitempty"`
	URL       string   `json:"url,omitempty"`
}

// Page is the paginated envelope returned by listing endpoints
type Page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

// TotalPages returns the number of pages for the current page size
func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		if p.Count > 0 {
			return 1
		}
		return 0
	}
	return (p.Count + p.PageSize - 1) / p.PageSize
}

// HasMore checks if there are pages after the current one
func (p *Page[T]) HasMore() bool {
	return p.Page < p.TotalPages()
}

// FilmSummary is the minimal film record embedded in a character listing
type FilmSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	EpisodeID int    `json:"episode_id"`
}

// FilmCharacters is the character listing of a single film
type FilmCharacters struct {
	Film FilmSummary `json:"film"`
	Page[Character]
}

// FilmDetails combines a film with its characters
type FilmDetails struct {
	Film       *Film
	Characters *FilmCharacters
}
