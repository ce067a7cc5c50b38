// Package catalog provides a client for the film catalog REST API.
//
// The client is the single point of HTTP access to the catalog. It attaches the
// bearer token held by an injected session.Store, maps error statuses onto typed
// errors and tells subscribers when the session ends.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	client, err := catalog.NewClient(catalog.DefaultBaseURL, store, logger,
//		catalog.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := client.Login(ctx, "admin", "admin"); err != nil {
//		log.Fatal(err)
//	}
//
//	films, err := client.ListFilms(ctx, catalog.ListFilmsParams{Search: "empire"})
//
// # Error Handling
//
//   - AuthError: HTTP 401 or a rejected login; matches ErrUnauthorized
//   - NotFoundError: HTTP 404; matches ErrNotFound
//   - RequestError: any other non-2xx status, with the server's message
//   - DecodeError: a 2xx body that is not the expected JSON
//
// A 401 on any request other than login clears the session and emits
// EventUnauthorized before the AuthError is returned:
//
//	client.Subscribe(func(e catalog.Event) {
//		if e == catalog.EventUnauthorized {
//			fmt.Println("session expired, log in again")
//		}
//	})
package catalog
