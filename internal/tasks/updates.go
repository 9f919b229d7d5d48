package tasks

import (
	"fmt"
	"strings"

	"github.com/bluesky21/spotify/internal/models"
)

// ProgressUpdate represents a progress event during a run.
//
// Used to send updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	Authenticate Phase = iota
	ResolveSeeds
	FetchRecommendations
	CreatePlaylist
	AddTracks
)

// totalSteps is the number of external steps in a run.
const totalSteps = 5

func (p Phase) String() string {
	switch p {
	case Authenticate:
		return "authenticate"
	case ResolveSeeds:
		return "resolve_seeds"
	case FetchRecommendations:
		return "fetch_recommendations"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func authenticatedUpdate(user *models.User) ProgressUpdate {
	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	return ProgressUpdate{
		Phase:   Authenticate,
		Step:    1,
		Total:   totalSteps,
		Message: fmt.Sprintf("Authenticated as %s", name),
		Data:    user,
	}
}

func seedsResolvedUpdate(set models.SeedSet) ProgressUpdate {
	msg := fmt.Sprintf("Resolved %d %s seeds", set.Len(), set.Kind)
	if len(set.Artists) > 0 {
		names := make([]string, 0, len(set.Artists))
		for _, a := range set.Artists {
			names = append(names, a.Name)
		}
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(names, ", "))
	}
	return ProgressUpdate{
		Phase:   ResolveSeeds,
		Step:    2,
		Total:   totalSteps,
		Message: msg,
		Data:    set,
	}
}

func recommendationsUpdate(tracks []models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Step:    3,
		Total:   totalSteps,
		Message: fmt.Sprintf("Fetched %d recommendations", len(tracks)),
		Data:    tracks,
	}
}

func createPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    4,
		Total:   totalSteps,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func addTracksUpdate(pl *models.Playlist, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    5,
		Total:   totalSteps,
		Message: fmt.Sprintf("Added %d tracks to %s", count, pl.Name),
		Data:    pl,
	}
}
