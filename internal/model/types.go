// Package model defines shared data structures.
package model

import "time"

// Config defines game settings.
type Config struct {
	StoryPath    string
	AdvanceDelay time.Duration
	PlainPunct   bool
	Guest        bool
}

// Scene is one unit of story text to be typed.
type Scene struct {
	Index int
	Title string
	Text  string
	Image string
}

// SessionState is the mutable state of one typing attempt.
type SessionState struct {
	SceneIndex int
	Typed      []rune
	StartedAt  time.Time
	EndedAt    time.Time
	Errors     int
	Mistakes   int
	Active     bool
	Complete   bool
}

// ScoreRecord is appended to a user's history when a game is completed.
type ScoreRecord struct {
	WPM      int       `json:"wpm"`
	Accuracy int       `json:"accuracy"`
	Date     time.Time `json:"date"`
}

// SceneResult summarizes a single completed scene.
type SceneResult struct {
	Index    int
	Title    string
	WPM      int
	Accuracy int
	Mistakes int
	Duration time.Duration
}

// User is a normalized account record.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	// Password holds a legacy plaintext password until the next login upgrades it.
	Password string
	Scores   []ScoreRecord
}

// LeaderboardEntry aggregates a user's scores for ranking.
type LeaderboardEntry struct {
	UserID       string
	Name         string
	Games        int
	BestWPM      int
	BestAccuracy int
	AvgWPM       int
}

// ProfileSummary aggregates a single user's history.
type ProfileSummary struct {
	Name        string
	Email       string
	Games       int
	AvgWPM      int
	AvgAccuracy int
	Best        *ScoreRecord
	Recent      []ScoreRecord

	// History and AccuracyHistory hold one value per game, oldest first.
	History         []float64
	AccuracyHistory []float64
}
