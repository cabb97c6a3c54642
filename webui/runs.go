package webui

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rawprouk/scrape/casestudy"
)

// ErrRunNotFound is returned for unknown or evicted runs.
var ErrRunNotFound = errors.New("run not found")

// Run is a finished scrape kept for display and download.
type Run struct {
	ID        uuid.UUID             `json:"run_id"`
	CreatedAt time.Time             `json:"created_at"`
	Pages     int                   `json:"pages"`
	Studies   []casestudy.CaseStudy `json:"case_studies"`
}

// runStore keeps the most recent runs in memory, evicting the oldest once
// capacity is reached. Nothing survives a restart.
type runStore struct {
	mu       sync.Mutex
	runs     map[uuid.UUID]*Run
	order    []uuid.UUID
	capacity int
}

func newRunStore(capacity int) *runStore {
	if capacity < 1 {
		capacity = 1
	}
	return &runStore{
		runs:     make(map[uuid.UUID]*Run),
		capacity: capacity,
	}
}

// add stores a new run and returns it.
func (rs *runStore) add(pages int, studies []casestudy.CaseStudy) *Run {
	run := &Run{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Pages:     pages,
		Studies:   studies,
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	for len(rs.order) >= rs.capacity {
		oldest := rs.order[0]
		rs.order = rs.order[1:]
		delete(rs.runs, oldest)
	}

	rs.runs[run.ID] = run
	rs.order = append(rs.order, run.ID)

	return run
}

// get returns a stored run.
func (rs *runStore) get(id uuid.UUID) (*Run, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	run, ok := rs.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

func (rs *runStore) len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.runs)
}
