// Package tasks builds a playlist from seeded recommendations with progress reporting.
//
// # Seed Strategies
//
// A [SeedStrategy] turns user input into a [models.SeedSet]:
//
//  1. [ArtistSeeds] searches each artist name and takes the top result's primary artist ID.
//     A name without results aborts the run with [shared.ErrArtistNotFound] before anything is created.
//  2. [SavedTrackSeeds] takes the IDs of the user's most recently saved tracks, at most [MaxSavedSeeds].
//
// [NewSeedStrategy] chooses between them by whether any artist names were given.
//
// # Workflow
//
// [PlaylistEngine.Run] walks a linear sequence of states:
//
//	Unauthenticated → Authenticated → SeedResolved → RecommendationsFetched → PlaylistCreated → TracksAdded
//
// Each step is one blocking provider call. The first failure stops the run; the returned [RunResult]
// records the state reached. There are no retries and nothing is rolled back.
//
// # Progress Reporting
//
// Each transition sends a [ProgressUpdate] on an optional channel. Sends never block:
// a full or nil channel drops the update.
package tasks
