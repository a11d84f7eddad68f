// Package router tracks spotlook's current location and serializes
// location changes through a single dispatch loop.
package router

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Route paths.
const (
	PathRoot     = "/"
	PathAuth     = "/auth"
	artistPrefix = "/artist/"
)

// Location is a path plus query string.
type Location struct {
	Path  string
	Query url.Values
}

// ParseLocation parses a path with an optional query string, or a full URL
// whose scheme and host are ignored.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", raw, err)
	}

	path := u.Path
	if path == "" {
		path = PathRoot
	}
	return Location{Path: path, Query: u.Query()}, nil
}

// MustParse is ParseLocation for constant locations.
func MustParse(raw string) Location {
	loc, err := ParseLocation(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Equal reports whether both path and query match.
func (l Location) Equal(other Location) bool {
	return l.Path == other.Path && l.Query.Encode() == other.Query.Encode()
}

// ArtistPath builds the detail location for an artist and album page.
func ArtistPath(id string, page int) string {
	p := artistPrefix + url.PathEscape(id)
	if page > 0 {
		p += "?page=" + strconv.Itoa(page)
	}
	return p
}

// Kind identifies a route.
type Kind int

const (
	KindNotFound Kind = iota
	KindSearch
	KindArtist
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindArtist:
		return "artist"
	case KindCallback:
		return "callback"
	default:
		return "not-found"
	}
}

// Route is a matched location.
type Route struct {
	Kind     Kind
	ArtistID string // KindArtist
	Page     int    // KindArtist, never negative
	Code     string // KindCallback
	Error    string // KindCallback, set when authorization was denied
}

// Match resolves a location against the known routes.
func Match(loc Location) Route {
	switch {
	case loc.Path == PathRoot:
		return Route{Kind: KindSearch}
	case loc.Path == PathAuth:
		return Route{
			Kind:  KindCallback,
			Code:  loc.Query.Get("code"),
			Error: loc.Query.Get("error"),
		}
	case strings.HasPrefix(loc.Path, artistPrefix):
		id := strings.TrimPrefix(loc.Path, artistPrefix)
		if id == "" || strings.Contains(id, "/") {
			return Route{Kind: KindNotFound}
		}
		if unescaped, err := url.PathUnescape(id); err == nil {
			id = unescaped
		}
		page, _ := strconv.Atoi(loc.Query.Get("page"))
		return Route{Kind: KindArtist, ArtistID: id, Page: max(0, page)}
	default:
		return Route{Kind: KindNotFound}
	}
}
