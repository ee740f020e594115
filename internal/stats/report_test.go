package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/typesymphony/internal/account"
	"github.com/verte-zerg/typesymphony/internal/model"
	"github.com/verte-zerg/typesymphony/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "typesymphony.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	svc := account.New(st, account.WithHashCost(bcrypt.MinCost))
	slow, err := svc.Register(ctx, "Slow", "slow@example.com", "secret1")
	if err != nil {
		t.Fatalf("register slow: %v", err)
	}
	fast, err := svc.Register(ctx, "Fast", "fast@example.com", "secret1")
	if err != nil {
		t.Fatalf("register fast: %v", err)
	}
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, wpm := range []int{20, 30} {
		rec := model.ScoreRecord{WPM: wpm, Accuracy: 90, Date: base.Add(time.Duration(i) * time.Hour)}
		if err := svc.AppendScore(ctx, slow.ID, rec); err != nil {
			t.Fatalf("append slow: %v", err)
		}
	}
	if err := svc.AppendScore(ctx, fast.ID, model.ScoreRecord{WPM: 70, Accuracy: 95, Date: base}); err != nil {
		t.Fatalf("append fast: %v", err)
	}

	report, err := BuildReport(ctx, svc)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Leaderboard) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Leaderboard))
	}
	if report.Leaderboard[0].Name != "Fast" || report.Leaderboard[1].AvgWPM != 25 {
		t.Fatalf("unexpected leaderboard: %+v", report.Leaderboard)
	}
	if report.Profile == nil || report.Profile.Name != "Fast" {
		t.Fatalf("expected profile of signed-in user, got %+v", report.Profile)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	report, err = BuildReport(ctx, svc)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Profile != nil {
		t.Fatalf("expected no profile when signed out")
	}
}
