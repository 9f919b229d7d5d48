// package models defines the data model for playlist seeding
package models

// SeedKind identifies what a [SeedSet] holds.
type SeedKind int

const (
	ArtistSeedKind SeedKind = iota
	TrackSeedKind
)

func (k SeedKind) String() string {
	switch k {
	case ArtistSeedKind:
		return "artist"
	case TrackSeedKind:
		return "track"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k SeedKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ArtistSeed pairs an artist name from user input with the provider ID it resolved to.
type ArtistSeed struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// SeedSet is the resolved set of seeds for a single recommendation request.
//
// Exactly one kind is active. For [ArtistSeedKind] Artists holds the name/ID pairs in input order and IDs mirrors their IDs.
type SeedSet struct {
	Kind    SeedKind     `json:"kind"`
	IDs     []string     `json:"ids"`
	Artists []ArtistSeed `json:"artists,omitempty"`
}

// ArtistIDs returns the resolved IDs keyed by artist name.
func (s SeedSet) ArtistIDs() map[string]string {
	ids := make(map[string]string, len(s.Artists))
	for _, a := range s.Artists {
		ids[a.Name] = a.ID
	}
	return ids
}

// Len returns the number of seed identifiers.
func (s SeedSet) Len() int {
	return len(s.IDs)
}

// RecommendParams are the base parameters sent with every recommendation request.
type RecommendParams struct {
	Country string `json:"country"`
}

// Artist is a provider artist reference attached to a track.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track represents a track returned by the provider.
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	Album   string   `json:"album,omitempty"`
}

// PrimaryArtist returns the first credited artist, if any.
func (t Track) PrimaryArtist() (Artist, bool) {
	if len(t.Artists) == 0 {
		return Artist{}, false
	}
	return t.Artists[0], true
}

// ArtistNames returns the credited artist names.
func (t Track) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return names
}

// TrackIDs extracts the IDs of tracks, preserving order.
func TrackIDs(tracks []Track) []string {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	return ids
}

// Playlist represents a playlist on the provider.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	TrackCount  int    `json:"track_count"`
	URL         string `json:"url,omitempty"`
}

// User is the authenticated provider account.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
