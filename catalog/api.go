package catalog

import (
	"context"
)

// API defines the catalog operations used by the command layer
type API interface {
	// Login exchanges credentials for a bearer token and stores it
	Login(ctx context.Context, username, password string) (*LoginResponse, error)

	// Logout forgets the stored token without contacting the server
	Logout() error

	// IsAuthenticated reports whether a token is currently stored
	IsAuthenticated() bool

	// HealthCheck probes the liveness endpoint
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// ListFilms retrieves one page of films
	ListFilms(ctx context.Context, params ListFilmsParams) (*Page[Film], error)

	// GetFilm retrieves a single film
	GetFilm(ctx context.Context, id string) (*Film, error)

	// GetFilmCharacters retrieves the characters of a film
	GetFilmCharacters(ctx context.Context, id string) (*FilmCharacters, error)

	// GetFilmDetails retrieves a film and its characters concurrently
	GetFilmDetails(ctx context.Context, id string) (*FilmDetails, error)

	// Subscribe registers a handler for session events
	Subscribe(handler Handler) (unsubscribe func())
}

var _ API = (*Client)(nil)
