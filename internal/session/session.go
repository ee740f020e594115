// Package session implements the typing-session state machine: one scene's
// reference text against the typed text, error counting, scoring and the
// progression through a fixed sequence of scenes.
//
// A Session is not safe for concurrent use. All calls, including scheduled
// advance callbacks, are expected on a single goroutine.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/typesymphony/internal/model"
)

// DefaultAdvanceDelay is the pause between a completed scene and the next one.
const DefaultAdvanceDelay = 1500 * time.Millisecond

var (
	// ErrSceneOutOfRange is returned by Start for an index outside the sequence.
	ErrSceneOutOfRange = errors.New("scene out of range")
	// ErrInvalidScenes is returned by New for an empty sequence or a scene without text.
	ErrInvalidScenes = errors.New("invalid scenes")
)

// Clock returns the current time.
type Clock func() time.Time

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Events receives session signals. Nil callbacks are skipped.
type Events struct {
	OnSceneComplete func(model.SceneResult)
	OnGameComplete  func(model.ScoreRecord)
}

// Options configures a Session.
type Options struct {
	Clock Clock
	// Scheduler drives the deferred advance after a completed scene. When nil
	// the caller advances explicitly with Advance.
	Scheduler    Scheduler
	AdvanceDelay time.Duration
	Events       Events
}

// Session tracks a game: the current scene attempt and the scenes completed so far.
type Session struct {
	scenes []model.Scene
	opts   Options

	state  model.SessionState
	target []rune

	results      []model.SceneResult
	gameComplete bool
	score        model.ScoreRecord

	pending        Timer
	advancePending bool
	generation     uint64
}

// New returns a session positioned on the first scene, inactive.
func New(scenes []model.Scene, opts Options) (*Session, error) {
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: no scenes", ErrInvalidScenes)
	}
	for i, sc := range scenes {
		if sc.Text == "" {
			return nil, fmt.Errorf("%w: scene %d has no text", ErrInvalidScenes, i+1)
		}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = DefaultAdvanceDelay
	}
	s := &Session{
		scenes: append([]model.Scene(nil), scenes...),
		opts:   opts,
	}
	s.Reset()
	return s, nil
}

// Start begins an attempt at the scene with the given index: typed text is
// cleared, the start time recorded and the session marked active. Starting
// the first scene also begins a new game.
func (s *Session) Start(index int) error {
	if index < 0 || index >= len(s.scenes) {
		return fmt.Errorf("%w: %d", ErrSceneOutOfRange, index)
	}
	s.cancelPending()
	if index == 0 {
		s.results = nil
		s.gameComplete = false
		s.score = model.ScoreRecord{}
	}
	s.state = model.SessionState{
		SceneIndex: index,
		StartedAt:  s.opts.Clock(),
		Active:     true,
	}
	s.target = []rune(s.scenes[index].Text)
	return nil
}

// Input replaces the typed text. Runes beyond the reference length are
// dropped. It reports whether this input completed the scene. Input is
// ignored while the session is not active.
func (s *Session) Input(text string) bool {
	if !s.state.Active {
		return false
	}
	typed := []rune(text)
	if len(typed) > len(s.target) {
		typed = typed[:len(s.target)]
	}
	s.state.Mistakes += newMistakes(s.target, s.state.Typed, typed)
	s.state.Typed = typed
	s.state.Errors = CountErrors(s.target, typed)

	if len(typed) == len(s.target) && s.state.Errors == 0 {
		s.completeScene()
		return true
	}
	return false
}

// Type appends runes to the typed text.
func (s *Session) Type(runes ...rune) bool {
	if !s.state.Active {
		return false
	}
	next := make([]rune, 0, len(s.state.Typed)+len(runes))
	next = append(next, s.state.Typed...)
	next = append(next, runes...)
	return s.Input(string(next))
}

// Backspace removes the last typed rune.
func (s *Session) Backspace() {
	if !s.state.Active || len(s.state.Typed) == 0 {
		return
	}
	s.Input(string(s.state.Typed[:len(s.state.Typed)-1]))
}

// ComputeMetrics scores the current scene attempt from its start and end
// times and the mistakes made. An attempt that has not ended is measured up
// to now.
func (s *Session) ComputeMetrics() model.ScoreRecord {
	end := s.state.EndedAt
	if end.IsZero() {
		end = s.opts.Clock()
	}
	var elapsed time.Duration
	if !s.state.StartedAt.IsZero() {
		elapsed = end.Sub(s.state.StartedAt)
	}
	wpm, acc := Metrics(s.scenes[s.state.SceneIndex].Text, s.state.Mistakes, elapsed)
	return model.ScoreRecord{WPM: wpm, Accuracy: acc, Date: end}
}

// Advance moves to the next scene and starts it, or marks the game complete
// when the current scene is the last one.
func (s *Session) Advance() {
	s.cancelPending()
	if s.gameComplete {
		return
	}
	next := s.state.SceneIndex + 1
	if next < len(s.scenes) {
		// next is in range, Start cannot fail.
		_ = s.Start(next)
		return
	}
	s.state.Active = false
	s.finishGame()
}

// Reset cancels any pending advance and returns to the first scene, inactive.
func (s *Session) Reset() {
	s.cancelPending()
	s.state = model.SessionState{}
	s.target = []rune(s.scenes[0].Text)
	s.results = nil
	s.gameComplete = false
	s.score = model.ScoreRecord{}
}

// State returns a copy of the current attempt state.
func (s *Session) State() model.SessionState {
	st := s.state
	st.Typed = append([]rune(nil), s.state.Typed...)
	return st
}

// Scene returns the current scene.
func (s *Session) Scene() model.Scene {
	return s.scenes[s.state.SceneIndex]
}

// SceneCount returns the number of scenes in the sequence.
func (s *Session) SceneCount() int {
	return len(s.scenes)
}

// Target returns the reference runes of the current scene. Callers must not modify it.
func (s *Session) Target() []rune {
	return s.target
}

// AdvancePending reports whether a deferred advance is scheduled.
func (s *Session) AdvancePending() bool {
	return s.advancePending
}

// GameComplete reports whether the final scene has been completed.
func (s *Session) GameComplete() bool {
	return s.gameComplete
}

// Score returns the final score once the game is complete.
func (s *Session) Score() (model.ScoreRecord, bool) {
	return s.score, s.gameComplete
}

// Results returns per-scene results of the current game.
func (s *Session) Results() []model.SceneResult {
	return append([]model.SceneResult(nil), s.results...)
}

func (s *Session) completeScene() {
	now := s.opts.Clock()
	s.state.EndedAt = now
	s.state.Active = false
	s.state.Complete = true

	sc := s.scenes[s.state.SceneIndex]
	rec := s.ComputeMetrics()
	result := model.SceneResult{
		Index:    sc.Index,
		Title:    sc.Title,
		WPM:      rec.WPM,
		Accuracy: rec.Accuracy,
		Mistakes: s.state.Mistakes,
		Duration: now.Sub(s.state.StartedAt),
	}
	s.results = append(s.results, result)

	gen := s.generation
	if s.opts.Events.OnSceneComplete != nil {
		s.opts.Events.OnSceneComplete(result)
	}
	if gen != s.generation {
		// Reset or Start was called from the callback.
		return
	}

	if s.state.SceneIndex < len(s.scenes)-1 {
		s.scheduleAdvance()
		return
	}
	s.finishGame()
}

func (s *Session) finishGame() {
	if s.gameComplete {
		return
	}
	if s.state.EndedAt.IsZero() {
		s.state.EndedAt = s.opts.Clock()
	}
	s.gameComplete = true
	s.score = s.ComputeMetrics()
	if s.opts.Events.OnGameComplete != nil {
		s.opts.Events.OnGameComplete(s.score)
	}
}

func (s *Session) scheduleAdvance() {
	s.advancePending = true
	if s.opts.Scheduler == nil {
		return
	}
	gen := s.generation
	s.pending = s.opts.Scheduler.AfterFunc(s.opts.AdvanceDelay, func() {
		s.fireAdvance(gen)
	})
}

func (s *Session) fireAdvance(gen uint64) {
	if gen != s.generation || !s.advancePending {
		return
	}
	s.pending = nil
	s.Advance()
}

func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.advancePending = false
	s.generation++
}

// CountErrors counts positions where typed differs from target.
func CountErrors(target, typed []rune) int {
	errs := 0
	for i, r := range typed {
		if i >= len(target) || r != target[i] {
			errs++
		}
	}
	return errs
}

// newMistakes counts wrong runes at positions that changed between prev and next.
func newMistakes(target, prev, next []rune) int {
	count := 0
	for i, r := range next {
		if i < len(prev) && prev[i] == r {
			continue
		}
		if i >= len(target) || r != target[i] {
			count++
		}
	}
	return count
}

// WordCount returns the number of space-separated words in text.
func WordCount(text string) int {
	return len(strings.Split(text, " "))
}
