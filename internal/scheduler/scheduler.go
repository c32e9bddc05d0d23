package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/rlin/ambienttracker/internal/ambient"
	"github.com/rlin/ambienttracker/internal/store"
)

const interval = 5 * time.Minute

// Fetcher pulls one snapshot from the weather station API.
type Fetcher interface {
	DeviceData(ctx context.Context, macAddress string) (ambient.Snapshot, error)
}

// Writer persists a snapshot to the spreadsheet.
type Writer interface {
	Write(ctx context.Context, snapshot map[string]interface{}) error
}

// Scheduler fetches a snapshot every 5 minutes and forwards the one that
// lands at the top of the hour to the sheet writer.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	writer    Writer
	status    *store.Status
	deviceMAC string
	now       func() time.Time
}

// New creates a Scheduler for the given device.
func New(fetcher Fetcher, writer Writer, status *store.Status, deviceMAC string) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		fetcher:   fetcher,
		writer:    writer,
		status:    status,
		deviceMAC: deviceMAC,
		now:       time.Now,
	}
}

// Start aligns the first run to the next 5-minute boundary and then fires
// every 5 minutes at a fixed rate. Runs never overlap: singleton mode makes
// an overrunning cycle delay the next firing rather than run beside it.
func (s *Scheduler) Start(ctx context.Context) error {
	first := nextRunTime(s.now())
	log.Infof("first run scheduled for %s", first)

	_, err := s.scheduler.Every(interval).StartAt(first).SingletonMode().Do(func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop halts the schedule. An in-flight retry chain is aborted through the
// context passed to Start.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runOnce fetches one snapshot and, when the wall clock reads minute 0 as
// the snapshot returns, writes it to the spreadsheet. Snapshots fetched off
// the hour are discarded; there is no buffering or replay. Every error is
// logged and swallowed so the schedule runs indefinitely.
func (s *Scheduler) runOnce(ctx context.Context) {
	logger := log.WithField("run", uuid.NewString())

	snapshot, err := s.fetcher.DeviceData(ctx, s.deviceMAC)
	s.status.RecordFetch(err)
	if err != nil {
		logger.Errorf("fetch failed, no data this cycle: %v", err)
		return
	}
	logger.Infof("fetched snapshot with %d fields", len(snapshot))

	if s.now().Minute() != 0 {
		logger.Debug("off the hour, discarding snapshot")
		return
	}

	if err := s.writer.Write(ctx, snapshot); err != nil {
		s.status.RecordWrite(err)
		logger.Errorf("sheet write failed: %v", err)
		return
	}
	s.status.RecordWrite(nil)
	logger.Info("snapshot written to spreadsheet")
}

// waitMinutes returns how many minutes to wait from minute-of-hour m until
// the next 5-minute boundary. A zero wait is remapped to a full slot so a
// run never fires immediately; the result is always in 1..5.
func waitMinutes(m int) int {
	wait := (5 - m%5) % 5
	if wait == 0 {
		return 5
	}
	return wait
}

// nextRunTime is the next boundary after now, truncated to the whole
// minute.
func nextRunTime(now time.Time) time.Time {
	return now.Add(time.Duration(waitMinutes(now.Minute())) * time.Minute).Truncate(time.Minute)
}
