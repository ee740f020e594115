package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typesymphony/internal/session"
)

// timerFiredMsg is delivered by tea.Tick when a scheduled callback is due.
type timerFiredMsg struct {
	id uint64
}

// teaScheduler implements session.Scheduler on top of tea.Tick so callbacks
// run inside Update. Commands created while handling a message are collected
// and returned from Update by drain.
type teaScheduler struct {
	nextID  uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

type teaTimer struct {
	id    uint64
	sched *teaScheduler
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{pending: map[uint64]func(){}}
}

func (s *teaScheduler) AfterFunc(d time.Duration, fn func()) session.Timer {
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return teaTimer{id: id, sched: s}
}

func (t teaTimer) Stop() bool {
	if _, ok := t.sched.pending[t.id]; !ok {
		return false
	}
	delete(t.sched.pending, t.id)
	return true
}

// fire runs the callback for id unless it was stopped.
func (s *teaScheduler) fire(id uint64) bool {
	fn, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	fn()
	return true
}

func (s *teaScheduler) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}
