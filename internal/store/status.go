package store

import (
	"sync"
	"time"
)

// Status is a concurrency-safe record of what the scheduler has done so
// far. It backs the read-only status endpoint; the spreadsheet itself is
// the persistence layer.
type Status struct {
	mu sync.RWMutex

	startedAt   time.Time
	lastFetch   time.Time
	lastWrite   time.Time
	fetchOK     int
	fetchFailed int
	writeOK     int
	writeFailed int
	lastError   string
}

// NewStatus creates a Status anchored at the current time.
func NewStatus() *Status {
	return &Status{startedAt: time.Now()}
}

// RecordFetch notes the outcome of one fetch cycle.
func (s *Status) RecordFetch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFetch = time.Now()
	if err != nil {
		s.fetchFailed++
		s.lastError = err.Error()
		return
	}
	s.fetchOK++
}

// RecordWrite notes the outcome of one hourly sheet write.
func (s *Status) RecordWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.writeFailed++
		s.lastError = err.Error()
		return
	}
	s.writeOK++
	s.lastWrite = time.Now()
}

// Report is the JSON shape served by the status endpoint.
type Report struct {
	StartedAt     time.Time `json:"startedAt"`
	UptimeSeconds int64     `json:"uptimeSeconds"`
	LastFetch     time.Time `json:"lastFetch"`
	LastWrite     time.Time `json:"lastWrite"`
	FetchOK       int       `json:"fetchOk"`
	FetchFailed   int       `json:"fetchFailed"`
	WriteOK       int       `json:"writeOk"`
	WriteFailed   int       `json:"writeFailed"`
	LastError     string    `json:"lastError,omitempty"`
}

// Report returns a point-in-time copy of the counters.
func (s *Status) Report() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Report{
		StartedAt:     s.startedAt,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		LastFetch:     s.lastFetch,
		LastWrite:     s.lastWrite,
		FetchOK:       s.fetchOK,
		FetchFailed:   s.fetchFailed,
		WriteOK:       s.writeOK,
		WriteFailed:   s.writeFailed,
		LastError:     s.lastError,
	}
}
