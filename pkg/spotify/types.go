package spotify

// Image is an artwork rendition.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Followers holds an artist's follower count.
type Followers struct {
	Total int `json:"total"`
}

// ExternalURLs links to the resource outside the API.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Artist is a full artist object.
type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Images       []Image      `json:"images"`
	Followers    Followers    `json:"followers"`
	Genres       []string     `json:"genres"`
	Popularity   int          `json:"popularity"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
	Href         string       `json:"href"`
}

// SimpleArtist is the artist reference embedded in tracks and albums.
type SimpleArtist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Album is a simplified album object as returned by the artist albums endpoint.
type Album struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Images               []Image        `json:"images"`
	ReleaseDate          string         `json:"release_date"`
	ReleaseDatePrecision string         `json:"release_date_precision"`
	TotalTracks          int            `json:"total_tracks"`
	AlbumType            string         `json:"album_type"`
	AlbumGroup           string         `json:"album_group"`
	Artists              []SimpleArtist `json:"artists"`
	ExternalURLs         ExternalURLs   `json:"external_urls"`
	AvailableMarkets     []string       `json:"available_markets"`
}

// TrackAlbum is the album reference embedded in a track.
type TrackAlbum struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Images      []Image `json:"images"`
	ReleaseDate string  `json:"release_date"`
	AlbumType   string  `json:"album_type"`
}

// Track is a full track object.
type Track struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	DurationMS   int            `json:"duration_ms"`
	Explicit     bool           `json:"explicit"`
	Popularity   int            `json:"popularity"`
	PreviewURL   string         `json:"preview_url"`
	TrackNumber  int            `json:"track_number"`
	DiscNumber   int            `json:"disc_number"`
	Artists      []SimpleArtist `json:"artists"`
	Album        TrackAlbum     `json:"album"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
	URI          string         `json:"uri"`
	Href         string         `json:"href"`
}

// Page is a paginated list. Next and Previous are empty when the API
// reports null.
type Page[T any] struct {
	Items    []T    `json:"items"`
	Total    int    `json:"total"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool {
	return p.Next != ""
}

// HasPrevious reports whether a preceding page exists.
func (p Page[T]) HasPrevious() bool {
	return p.Previous != ""
}
