package spotify

import (
	"context"
	"net/url"
	"strconv"
)

// AlbumPageSize is the number of albums requested per page.
const AlbumPageSize = 20

// ArtistService provides the artist read operations of the Web API.
type ArtistService struct {
	client *Client
}

// Search looks up artists matching query in the client's market.
//
// Example:
//
//	page, err := client.Artists().Search(ctx, "caetano")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range page.Items {
//	    fmt.Println(a.Name)
//	}
func (s *ArtistService) Search(ctx context.Context, query string) (*Page[Artist], error) {
	params := url.Values{
		"q":      {query},
		"type":   {"artist"},
		"market": {s.client.market},
	}

	var resp struct {
		Artists Page[Artist] `json:"artists"`
	}
	if err := s.client.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}
	return &resp.Artists, nil
}

// Get returns a single artist.
func (s *ArtistService) Get(ctx context.Context, id string) (*Artist, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	var artist Artist
	if err := s.client.get(ctx, "/artists/"+url.PathEscape(id), nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// TopTracks returns the artist's top tracks.
func (s *ArtistService) TopTracks(ctx context.Context, id string) ([]Track, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	var resp struct {
		Tracks []Track `json:"tracks"`
	}
	if err := s.client.get(ctx, "/artists/"+url.PathEscape(id)+"/top-tracks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// Albums returns one page of the artist's albums starting at offset.
func (s *ArtistService) Albums(ctx context.Context, id string, offset int) (*Page[Album], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if offset < 0 {
		offset = 0
	}

	params := url.Values{
		"limit":  {strconv.Itoa(AlbumPageSize)},
		"offset": {strconv.Itoa(offset)},
	}

	var page Page[Album]
	if err := s.client.get(ctx, "/artists/"+url.PathEscape(id)+"/albums", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
