package query

import (
	"context"
	"strconv"
	"strings"

	"github.com/jfmyers9/spotlook/pkg/spotify"
)

// TopTrackCount is how many top tracks the views show.
const TopTrackCount = 5

// API is the subset of the Spotify client the queries read from.
// *spotify.ArtistService implements it.
type API interface {
	Search(ctx context.Context, query string) (*spotify.Page[spotify.Artist], error)
	Get(ctx context.Context, id string) (*spotify.Artist, error)
	TopTracks(ctx context.Context, id string) ([]spotify.Track, error)
	Albums(ctx context.Context, id string, offset int) (*spotify.Page[spotify.Album], error)
}

// SearchResult is the artist search read model.
type SearchResult struct {
	Query string
	Items []spotify.Artist
	Total int
}

// TopTracks is an artist's top tracks in API order.
type TopTracks []spotify.Track

// Top returns at most n tracks.
func (t TopTracks) Top(n int) TopTracks {
	if n < 0 {
		n = 0
	}
	if len(t) <= n {
		return t
	}
	return t[:n]
}

// AlbumPage is one page of an artist's discography.
type AlbumPage struct {
	Items       []spotify.Album
	Total       int
	Page        int
	HasNext     bool
	HasPrevious bool
}

// Queries exposes the four read operations on top of a Cache.
type Queries struct {
	api   API
	cache *Cache
}

func NewQueries(api API, cache *Cache) *Queries {
	return &Queries{api: api, cache: cache}
}

// Cache returns the underlying cache.
func (q *Queries) Cache() *Cache {
	return q.cache
}

// SearchKey is the cache key for an artist search.
func SearchKey(query string) Key {
	return Key{Kind: KindSearch, ID: strings.TrimSpace(query)}
}

// ArtistKey is the cache key for an artist profile.
func ArtistKey(id string) Key {
	return Key{Kind: KindArtist, ID: id}
}

// TopTracksKey is the cache key for an artist's top tracks.
func TopTracksKey(id string) Key {
	return Key{Kind: KindTopTracks, ID: id}
}

// AlbumsKey is the cache key for one page of an artist's albums.
func AlbumsKey(id string, page int) Key {
	return Key{Kind: KindAlbums, ID: id, Params: "page=" + strconv.Itoa(max(0, page))}
}

// SearchArtists searches artists by name. An empty query stays idle and
// makes no request.
func (q *Queries) SearchArtists(ctx context.Context, query string) Result[SearchResult] {
	key := SearchKey(query)
	if key.ID == "" {
		return Result[SearchResult]{Status: StatusIdle}
	}

	return fetch(ctx, q.cache, key, func(ctx context.Context) (SearchResult, error) {
		page, err := q.api.Search(ctx, key.ID)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Query: key.ID, Items: page.Items, Total: page.Total}, nil
	})
}

// GetArtist reads an artist profile. An empty id stays idle.
func (q *Queries) GetArtist(ctx context.Context, id string) Result[spotify.Artist] {
	if id == "" {
		return Result[spotify.Artist]{Status: StatusIdle}
	}

	return fetch(ctx, q.cache, ArtistKey(id), func(ctx context.Context) (spotify.Artist, error) {
		artist, err := q.api.Get(ctx, id)
		if err != nil {
			return spotify.Artist{}, err
		}
		return *artist, nil
	})
}

// GetArtistTopTracks reads an artist's top tracks. Views show
// Data.Top(TopTrackCount). An empty id stays idle.
func (q *Queries) GetArtistTopTracks(ctx context.Context, id string) Result[TopTracks] {
	if id == "" {
		return Result[TopTracks]{Status: StatusIdle}
	}

	return fetch(ctx, q.cache, TopTracksKey(id), func(ctx context.Context) (TopTracks, error) {
		tracks, err := q.api.TopTracks(ctx, id)
		if err != nil {
			return nil, err
		}
		return TopTracks(tracks), nil
	})
}

// GetArtistAlbums reads page (zero-based, spotify.AlbumPageSize albums per
// page) of an artist's albums. Negative pages read page 0. An empty id
// stays idle.
func (q *Queries) GetArtistAlbums(ctx context.Context, id string, page int) Result[AlbumPage] {
	if id == "" {
		return Result[AlbumPage]{Status: StatusIdle}
	}
	page = max(0, page)

	return fetch(ctx, q.cache, AlbumsKey(id, page), func(ctx context.Context) (AlbumPage, error) {
		p, err := q.api.Albums(ctx, id, page*spotify.AlbumPageSize)
		if err != nil {
			return AlbumPage{}, err
		}
		return AlbumPage{
			Items:       p.Items,
			Total:       p.Total,
			Page:        page,
			HasNext:     p.HasNext(),
			HasPrevious: p.HasPrevious(),
		}, nil
	})
}

// PeekSearch returns the cached search state without fetching.
func (q *Queries) PeekSearch(query string) Result[SearchResult] {
	return peek[SearchResult](q.cache, SearchKey(query))
}
