package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typesymphony/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Add(d time.Duration) { c.now = c.now.Add(d) }

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// fireAll runs every callback, stopped or not, the way a late timer would.
func (s *fakeScheduler) fireAll() {
	timers := s.timers
	s.timers = nil
	for _, t := range timers {
		t.fn()
	}
}

type recorder struct {
	scenes []model.SceneResult
	games  []model.ScoreRecord
}

func (r *recorder) events() Events {
	return Events{
		OnSceneComplete: func(res model.SceneResult) { r.scenes = append(r.scenes, res) },
		OnGameComplete:  func(rec model.ScoreRecord) { r.games = append(r.games, rec) },
	}
}

func testScenes(texts ...string) []model.Scene {
	scenes := make([]model.Scene, len(texts))
	for i, text := range texts {
		scenes[i] = model.Scene{Index: i, Title: "Scene", Text: text}
	}
	return scenes
}

func newTestSession(t *testing.T, texts ...string) (*Session, *fakeClock, *fakeScheduler, *recorder) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
	sched := &fakeScheduler{}
	rec := &recorder{}
	s, err := New(testScenes(texts...), Options{
		Clock:     clock.Now,
		Scheduler: sched,
		Events:    rec.events(),
	})
	require.NoError(t, err)
	return s, clock, sched, rec
}

func TestNewRejectsMissingText(t *testing.T) {
	_, err := New(nil, Options{})
	require.ErrorIs(t, err, ErrInvalidScenes)

	_, err = New(testScenes("ok", ""), Options{})
	require.ErrorIs(t, err, ErrInvalidScenes)
}

func TestStartRejectsUnknownScene(t *testing.T) {
	s, _, _, _ := newTestSession(t, "cat")
	require.ErrorIs(t, s.Start(1), ErrSceneOutOfRange)
	require.ErrorIs(t, s.Start(-1), ErrSceneOutOfRange)
}

func TestStartResetsAttempt(t *testing.T) {
	s, clock, _, _ := newTestSession(t, "cat")
	require.NoError(t, s.Start(0))
	s.Input("cb")

	clock.Add(time.Minute)
	require.NoError(t, s.Start(0))
	st := s.State()
	require.Empty(t, st.Typed)
	require.Zero(t, st.Errors)
	require.Zero(t, st.Mistakes)
	require.True(t, st.Active)
	require.Equal(t, clock.now, st.StartedAt)
}

func TestPrefixesHaveNoErrors(t *testing.T) {
	ref := "The jungle buzzed, 'What's the plan?'"
	s, _, _, _ := newTestSession(t, ref, "next")
	require.NoError(t, s.Start(0))
	runes := []rune(ref)
	for i := 0; i < len(runes); i++ {
		s.Input(string(runes[:i]))
		require.Zerof(t, s.State().Errors, "prefix %q", string(runes[:i]))
		require.False(t, s.State().Complete)
	}
}

func TestSubstitutionCountsError(t *testing.T) {
	ref := []rune("cat sat")
	for i := range ref {
		s, _, _, _ := newTestSession(t, string(ref))
		require.NoError(t, s.Start(0))
		typed := append([]rune(nil), ref...)
		typed[i] = '#'
		s.Input(string(typed))
		st := s.State()
		require.GreaterOrEqual(t, st.Errors, 1)
		require.False(t, st.Complete)
		require.True(t, st.Active)
	}
}

func TestSingleMismatchExample(t *testing.T) {
	s, _, _, _ := newTestSession(t, "cat")
	require.NoError(t, s.Start(0))
	s.Input("cbt")
	st := s.State()
	require.Equal(t, 1, st.Errors)
	require.False(t, st.Complete)
}

func TestTypingExactTextCompletesOnce(t *testing.T) {
	s, clock, _, rec := newTestSession(t, "cat sat")
	require.NoError(t, s.Start(0))
	for _, r := range "cat sat" {
		clock.Add(time.Second)
		s.Type(r)
	}
	st := s.State()
	require.Zero(t, st.Errors)
	require.True(t, st.Complete)
	require.False(t, st.Active)
	require.Equal(t, 2, WordCount("cat sat"))
	require.Len(t, rec.scenes, 1)
	require.Len(t, rec.games, 1)

	// Further input is ignored and does not re-signal.
	require.False(t, s.Input("cat sat"))
	s.Type('x')
	require.Len(t, rec.scenes, 1)
	require.Len(t, rec.games, 1)
}

func TestOverLengthInputIsTruncated(t *testing.T) {
	s, _, _, rec := newTestSession(t, "cat")
	require.NoError(t, s.Start(0))
	require.True(t, s.Input("catapult"))
	st := s.State()
	require.Equal(t, "cat", string(st.Typed))
	require.True(t, st.Complete)
	require.Len(t, rec.games, 1)

	s2, _, _, _ := newTestSession(t, "cat")
	require.NoError(t, s2.Start(0))
	s2.Input("cbtxyz")
	require.Equal(t, "cbt", string(s2.State().Typed))
	require.Equal(t, 1, s2.State().Errors)
}

func TestInputIgnoredWhenInactive(t *testing.T) {
	s, _, _, _ := newTestSession(t, "cat")
	require.False(t, s.Input("cat"))
	require.Empty(t, s.State().Typed)
}

func TestBackspaceAndMistakes(t *testing.T) {
	s, _, _, _ := newTestSession(t, "cat")
	require.NoError(t, s.Start(0))
	s.Type('c', 'x')
	require.Equal(t, 1, s.State().Errors)
	s.Backspace()
	require.Zero(t, s.State().Errors)
	require.Equal(t, 1, s.State().Mistakes)
	s.Type('a', 't')
	st := s.State()
	require.True(t, st.Complete)
	require.Equal(t, 1, st.Mistakes)
}

func TestDeferredAdvance(t *testing.T) {
	s, _, sched, rec := newTestSession(t, "ab", "cd")
	require.NoError(t, s.Start(0))
	require.True(t, s.Input("ab"))

	require.True(t, s.AdvancePending())
	require.Len(t, sched.timers, 1)
	require.Equal(t, DefaultAdvanceDelay, sched.timers[0].delay)
	require.Equal(t, 0, s.State().SceneIndex)
	require.Empty(t, rec.games)

	sched.fireAll()
	st := s.State()
	require.Equal(t, 1, st.SceneIndex)
	require.True(t, st.Active)
	require.False(t, s.AdvancePending())
	require.Equal(t, "cd", string(s.Target()))

	require.True(t, s.Input("cd"))
	require.True(t, s.GameComplete())
	require.Len(t, rec.scenes, 2)
	require.Len(t, rec.games, 1)
	require.Empty(t, sched.timers, "last scene must not schedule an advance")
}

func TestResetInvalidatesPendingAdvance(t *testing.T) {
	s, _, sched, _ := newTestSession(t, "ab", "cd")
	require.NoError(t, s.Start(0))
	s.Input("ab")
	require.Len(t, sched.timers, 1)
	timer := sched.timers[0]

	s.Reset()
	require.True(t, timer.stopped)
	require.False(t, s.AdvancePending())

	// A late callback must not touch the state.
	sched.fireAll()
	st := s.State()
	require.Equal(t, 0, st.SceneIndex)
	require.False(t, st.Active)
	require.False(t, st.Complete)
}

func TestStaleCallbackAfterRestart(t *testing.T) {
	s, _, sched, _ := newTestSession(t, "ab", "cd")
	require.NoError(t, s.Start(0))
	s.Input("ab")
	s.Reset()
	require.NoError(t, s.Start(0))
	s.Input("a")

	sched.fireAll()
	st := s.State()
	require.Equal(t, 0, st.SceneIndex)
	require.Equal(t, "a", string(st.Typed))
}

func TestAdvanceWithoutScheduler(t *testing.T) {
	s, err := New(testScenes("ab", "cd"), Options{})
	require.NoError(t, err)
	require.NoError(t, s.Start(0))
	s.Input("ab")
	require.True(t, s.AdvancePending())
	s.Advance()
	require.Equal(t, 1, s.State().SceneIndex)
	s.Advance()
	require.True(t, s.GameComplete())
}

func TestAdvanceOnLastSceneCompletesGame(t *testing.T) {
	s, _, _, rec := newTestSession(t, "ab")
	require.NoError(t, s.Start(0))
	s.Advance()
	require.True(t, s.GameComplete())
	require.False(t, s.State().Active)
	require.Len(t, rec.games, 1)
	s.Advance()
	require.Len(t, rec.games, 1)
}

func TestResetThenStartReproducesInitialState(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err := New(testScenes("ab", "cd"), Options{Clock: clock.Now, Scheduler: &fakeScheduler{}})
	require.NoError(t, err)
	require.NoError(t, s.Start(0))
	initial := s.State()
	initialTarget := string(s.Target())

	s.Input("ab")
	s.Advance()
	s.Input("cx")

	s.Reset()
	require.NoError(t, s.Start(0))
	require.Equal(t, initial, s.State())
	require.Equal(t, initialTarget, string(s.Target()))
	require.Empty(t, s.Results())
	require.False(t, s.GameComplete())

	s.Reset()
	require.NoError(t, s.Start(0))
	require.Equal(t, initial, s.State())
}

func TestGameScoreUsesFinalScene(t *testing.T) {
	s, clock, sched, rec := newTestSession(t, "one two three four", "cat sat")
	require.NoError(t, s.Start(0))
	clock.Add(time.Minute)
	s.Input("one two three four")
	sched.fireAll()

	clock.Add(30 * time.Second)
	s.Type('c', 'x')
	s.Backspace()
	s.Input("cat sat")

	score, ok := s.Score()
	require.True(t, ok)
	require.Equal(t, 4, score.WPM)       // 2 words / 0.5 min
	require.Equal(t, 86, score.Accuracy) // 100 - 1/7*100
	require.Equal(t, clock.now, score.Date)
	require.Equal(t, []model.ScoreRecord{score}, rec.games)

	results := s.Results()
	require.Len(t, results, 2)
	require.Equal(t, 4, results[0].WPM)
	require.Equal(t, 100, results[0].Accuracy)
	require.Equal(t, time.Minute, results[0].Duration)
}

func TestSceneCallbackMayReset(t *testing.T) {
	var s *Session
	sched := &fakeScheduler{}
	var err error
	s, err = New(testScenes("ab", "cd"), Options{
		Scheduler: sched,
		Events: Events{OnSceneComplete: func(model.SceneResult) {
			s.Reset()
		}},
	})
	require.NoError(t, err)
	require.NoError(t, s.Start(0))
	s.Input("ab")
	require.Empty(t, sched.timers)
	require.False(t, s.AdvancePending())
}
