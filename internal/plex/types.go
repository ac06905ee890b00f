package plex

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MediaKind identifies the shape of a catalog entry.
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindShow    MediaKind = "show"
	KindEpisode MediaKind = "episode"
)

var titleCaser = cases.Title(language.English)

// Display returns the kind formatted for user-facing output.
func (k MediaKind) Display() string {
	if k == "" {
		return "Unknown"
	}
	return titleCaser.String(string(k))
}

// MediaItem is a single catalog entry returned by a search or section listing.
type MediaItem struct {
	RatingKey string
	Title     string
	Kind      MediaKind
	Year      int
	Section   string
}

// Director is a person credited as director on a catalog entry.
type Director struct {
	ID  string
	Tag string
}

// Session describes an active playback session on the server.
type Session struct {
	SessionID        string
	Title            string
	GrandparentTitle string
	User             string
	Player           string
	State            string
}
