// Package stats contains leaderboard and profile aggregation and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typesymphony/internal/model"
)

const (
	sparkChars   = " .:-=+*#%@"
	recentScores = 5
	dateLayout   = "2006-01-02 15:04"
)

// BuildLeaderboard ranks users by best WPM, highest first. Users without
// scores are listed with zeros.
func BuildLeaderboard(users []model.User) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entry := model.LeaderboardEntry{
			UserID: u.ID,
			Name:   u.Name,
			Games:  len(u.Scores),
		}
		if len(u.Scores) > 0 {
			sum := 0
			entry.BestWPM = u.Scores[0].WPM
			entry.BestAccuracy = u.Scores[0].Accuracy
			for _, s := range u.Scores {
				sum += s.WPM
				if s.WPM > entry.BestWPM {
					entry.BestWPM = s.WPM
				}
				if s.Accuracy > entry.BestAccuracy {
					entry.BestAccuracy = s.Accuracy
				}
			}
			entry.AvgWPM = roundDiv(sum, len(u.Scores))
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].BestWPM == entries[j].BestWPM {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].BestWPM > entries[j].BestWPM
	})
	return entries
}

// BuildProfile summarizes one user's history.
func BuildProfile(u model.User) model.ProfileSummary {
	p := model.ProfileSummary{
		Name:  u.Name,
		Email: u.Email,
		Games: len(u.Scores),
	}
	if len(u.Scores) == 0 {
		return p
	}

	chrono := append([]model.ScoreRecord(nil), u.Scores...)
	sort.SliceStable(chrono, func(i, j int) bool {
		return chrono[i].Date.Before(chrono[j].Date)
	})
	p.History = make([]float64, len(chrono))
	p.AccuracyHistory = make([]float64, len(chrono))
	sumWPM, sumAcc := 0, 0
	for i, s := range chrono {
		p.History[i] = float64(s.WPM)
		p.AccuracyHistory[i] = float64(s.Accuracy)
		sumWPM += s.WPM
		sumAcc += s.Accuracy
	}
	p.AvgWPM = roundDiv(sumWPM, len(chrono))
	p.AvgAccuracy = roundDiv(sumAcc, len(chrono))

	newest := make([]model.ScoreRecord, len(chrono))
	for i := range chrono {
		newest[i] = chrono[len(chrono)-1-i]
	}
	best := newest[0]
	for _, s := range newest[1:] {
		if s.WPM > best.WPM {
			best = s
		}
	}
	p.Best = &best
	if len(newest) > recentScores {
		newest = newest[:recentScores]
	}
	p.Recent = newest
	return p
}

func roundDiv(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// LeaderboardRows formats entries as table rows with a 1-based rank column.
func LeaderboardRows(entries []model.LeaderboardEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.Name,
			fmt.Sprintf("%d", e.BestWPM),
			fmt.Sprintf("%d%%", e.BestAccuracy),
			fmt.Sprintf("%d", e.AvgWPM),
			fmt.Sprintf("%d", e.Games),
		})
	}
	return rows
}

// LeaderboardHeaders are the column titles used by LeaderboardRows.
var LeaderboardHeaders = []string{"Rank", "Player", "Best WPM", "Best Acc", "Avg WPM", "Games"}

const maxNameWidth = 20

func leaderboardColumns() []column {
	cols := make([]column, len(LeaderboardHeaders))
	for i, title := range LeaderboardHeaders {
		cols[i] = column{title: title, right: i != 1}
	}
	cols[1].max = maxNameWidth
	return cols
}

// RenderLeaderboard prints the leaderboard as an aligned table.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No players yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Leaderboard"); err != nil {
		return err
	}
	for _, line := range formatTable(leaderboardColumns(), LeaderboardRows(entries)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderProfile prints a profile summary, its recent scores and a WPM trend
// smoothed over window games.
func RenderProfile(w io.Writer, p model.ProfileSummary, window int) error {
	if _, err := fmt.Fprintf(w, "%s <%s>\n", p.Name, p.Email); err != nil {
		return err
	}
	if p.Games == 0 {
		_, err := fmt.Fprintln(w, "No games played yet.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Games: %d\n", p.Games); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %d\n", p.AvgWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %d%%\n", p.AvgAccuracy); err != nil {
		return err
	}
	if p.Best != nil {
		if _, err := fmt.Fprintf(w, "Best: %d WPM · %d%% (%s)\n", p.Best.WPM, p.Best.Accuracy, formatDate(p.Best)); err != nil {
			return err
		}
	}
	if len(p.History) > 1 {
		if _, err := fmt.Fprintf(w, "Trend: %s\n", Sparkline(MovingAverage(p.History, window))); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Recent Games"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(p.Recent))
	for i := range p.Recent {
		s := p.Recent[i]
		rows = append(rows, []string{formatDate(&s), fmt.Sprintf("%d", s.WPM), fmt.Sprintf("%d%%", s.Accuracy)})
	}
	cols := []column{{title: "Date"}, {title: "WPM", right: true}, {title: "Accuracy", right: true}}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(s *model.ScoreRecord) string {
	if s.Date.IsZero() {
		return "unknown"
	}
	return s.Date.Local().Format(dateLayout)
}
