package store

import (
	"errors"
	"testing"
)

func TestStatusCountsOutcomes(t *testing.T) {
	s := NewStatus()

	s.RecordFetch(nil)
	s.RecordFetch(nil)
	s.RecordFetch(errors.New("timeout"))
	s.RecordWrite(nil)
	s.RecordWrite(errors.New("quota exceeded"))

	report := s.Report()
	if report.FetchOK != 2 {
		t.Errorf("FetchOK = %d, want 2", report.FetchOK)
	}
	if report.FetchFailed != 1 {
		t.Errorf("FetchFailed = %d, want 1", report.FetchFailed)
	}
	if report.WriteOK != 1 {
		t.Errorf("WriteOK = %d, want 1", report.WriteOK)
	}
	if report.WriteFailed != 1 {
		t.Errorf("WriteFailed = %d, want 1", report.WriteFailed)
	}
	if report.LastError != "quota exceeded" {
		t.Errorf("LastError = %q, want %q", report.LastError, "quota exceeded")
	}
	if report.LastFetch.IsZero() {
		t.Error("LastFetch should be set after a fetch")
	}
	if report.LastWrite.IsZero() {
		t.Error("LastWrite should be set after a successful write")
	}
}

func TestStatusFailedWriteDoesNotAdvanceLastWrite(t *testing.T) {
	s := NewStatus()
	s.RecordWrite(errors.New("boom"))

	if report := s.Report(); !report.LastWrite.IsZero() {
		t.Errorf("LastWrite = %s, want zero after a failed write", report.LastWrite)
	}
}
