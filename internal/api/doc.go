// Package api provides the HTTP client for the flashcard REST API.
//
// # Overview
//
// The package defines two client variants. The base client, built with
// [NewClient], talks to the unauthenticated endpoints (register, login,
// token refresh). [Client.Authenticated] wraps it with a transport that
// attaches the bearer token supplied by a [TokenSource] and, when a request
// comes back 401, refreshes the token and replays the request exactly once.
// The single replay is the loop guard: a request that fails twice surfaces
// its failure to the caller.
//
// # Error Normalization
//
// Non-2xx responses become an [*Error]. When the server sent a structured
// body ({"detail": "..."}), Error carries that detail and Error() returns
// it verbatim; otherwise Error() falls back to the status code. Transport
// failures are returned as wrapped errors from the underlying http client.
//
// # Client Usage
//
//	client, err := api.NewClient("http://127.0.0.1:8000/api")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	authed := client.Authenticated(tokens)
//	decks, err := authed.ListDecks(ctx)
package api
