// Package spotify provides a client library for the Spotify Web API.
//
// # Overview
//
// This package implements the parts of the Spotify API needed to browse
// artists: the Authorization Code with PKCE flow and the artist read
// endpoints. It provides a small, type-safe API with context support,
// structured errors and retry logic.
//
// # Quick Start
//
// Create a client with your application's client id:
//
//	import "github.com/jfmyers9/spotlook/pkg/spotify"
//
//	client, err := spotify.NewClient(spotify.Config{
//	    ClientID:    "your-client-id",
//	    RedirectURL: "http://127.0.0.1:5173/auth",
//	    Scopes:      []string{"user-read-private"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Authentication
//
// Spotify public clients use Authorization Code with PKCE:
//
//  1. Generate a code verifier and its challenge
//  2. Store the verifier and send the user to the authorize URL
//  3. Receive the authorization code on the redirect URI
//  4. Exchange the code and the verifier for an access token
//
// Example:
//
//	// Steps 1 and 2
//	pkce, err := spotify.GeneratePKCE()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	save(pkce.Verifier)
//	fmt.Println("Please visit:", client.Auth().AuthCodeURL(pkce))
//
//	// Steps 3 and 4, once the redirect arrives with ?code=...
//	token, err := client.Auth().Exchange(ctx, code, load())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Authenticated Requests
//
// Bearer tokens come from an oauth2.TokenSource. Requests made without a
// token are sent unauthenticated and rejected by Spotify. Every 401 response
// invokes Config.OnUnauthorized with the rejected token:
//
//	client, err := spotify.NewClient(spotify.Config{
//	    ClientID: "your-client-id",
//	    Tokens:   oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.AccessToken}),
//	    OnUnauthorized: func(token string) {
//	        forget(token)
//	    },
//	})
//
//	page, err := client.Artists().Search(ctx, "gilberto gil")
//	artist, err := client.Artists().Get(ctx, page.Items[0].ID)
//	tracks, err := client.Artists().TopTracks(ctx, artist.ID)
//	albums, err := client.Artists().Albums(ctx, artist.ID, 0)
//
// # Error Handling
//
// API failures are returned as *Error. A 401 matches ErrUnauthorized:
//
//	_, err := client.Artists().Get(ctx, id)
//	if errors.Is(err, spotify.ErrUnauthorized) {
//	    // token expired or revoked
//	}
//	var apiErr *spotify.Error
//	if errors.As(err, &apiErr) && apiErr.Temporary() {
//	    // retry later
//	}
//
// Token exchange failures are returned as *AuthError.
//
// # API Coverage
//
// Currently implemented:
//   - Authorization (authorize URL, authorization_code token exchange)
//   - Search (type=artist)
//   - Artists (get, top-tracks, albums)
//
// # Spotify Web API Documentation
//
// https://developer.spotify.com/documentation/web-api
package spotify
