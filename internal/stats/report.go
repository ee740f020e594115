package stats

import (
	"context"

	"github.com/verte-zerg/typesymphony/internal/model"
)

// UserSource provides the users to aggregate.
type UserSource interface {
	Users(ctx context.Context) ([]model.User, error)
	CurrentUser(ctx context.Context) (model.User, bool, error)
}

// Report contains precomputed data for leaderboard rendering.
type Report struct {
	Leaderboard []model.LeaderboardEntry
	// Profile is nil when nobody is signed in.
	Profile *model.ProfileSummary
}

// BuildReport loads users and prepares the leaderboard and the signed-in
// user's profile.
func BuildReport(ctx context.Context, src UserSource) (Report, error) {
	users, err := src.Users(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Leaderboard: BuildLeaderboard(users)}

	current, ok, err := src.CurrentUser(ctx)
	if err != nil {
		return Report{}, err
	}
	if ok {
		profile := BuildProfile(current)
		report.Profile = &profile
	}
	return report, nil
}
