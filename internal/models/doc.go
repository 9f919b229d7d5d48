// Package models defines the domain values passed between the provider, the seed strategies and the playlist engine.
//
// None of these types are persisted. They live for the duration of one run:
//   - [SeedSet] : resolved seed identifiers and the kind of seed they are
//   - [ArtistSeed] : an artist name paired with its provider ID
//   - [Track] : a track returned by search, the saved-tracks library or the recommendation endpoint
//   - [Playlist] : the playlist created for the run
//   - [User] : the authenticated account the playlist is created under
//
// [RecommendParams] carries the immutable base parameters sent with every recommendation request.
package models
