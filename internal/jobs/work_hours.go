// Package jobs runs the scheduled maintenance tasks of the back office.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultWorkHoursSchedule fires every Wednesday at midnight, the weekday the
// weekly driver cycle started on.
const DefaultWorkHoursSchedule = "0 0 * * 3"

const resetTimeout = 30 * time.Second

// allDrivers keys the ScheduleAll entry. Stored drivers never have id 0.
const allDrivers uint = 0

// WorkHoursResetter zeroes the weekly hour counter of one driver.
type WorkHoursResetter interface {
	ResetWorkHours(ctx context.Context, driverID uint) error
}

// DriverLister lists the drivers due for a reset.
type DriverLister interface {
	DriverIDs(ctx context.Context) ([]uint, error)
}

// WorkHoursJob resets each scheduled driver's work hours once a week.
type WorkHoursJob struct {
	cron     *cron.Cron
	schedule cron.Schedule
	resetter WorkHoursResetter

	mu      sync.Mutex
	entries map[uint]cron.EntryID
}

func NewWorkHoursJob(spec string, loc *time.Location, resetter WorkHoursResetter) (*WorkHoursJob, error) {
	if spec == "" {
		spec = DefaultWorkHoursSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse work hours schedule %q: %w", spec, err)
	}
	log := cron.PrintfLogger(logrus.StandardLogger())
	return &WorkHoursJob{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
		schedule: schedule,
		resetter: resetter,
		entries:  make(map[uint]cron.EntryID),
	}, nil
}

// Schedule registers the weekly reset for driverID. Scheduling the same
// driver twice keeps a single entry.
func (j *WorkHoursJob) Schedule(driverID uint) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.entries[driverID]; ok {
		return
	}
	j.entries[driverID] = j.cron.Schedule(j.schedule, cron.FuncJob(func() { j.reset(driverID) }))
	logrus.WithField("driver_id", driverID).Debug("work hours reset scheduled")
}

// ScheduleAll registers a single weekly entry that resets every driver
// lister returns at the time the entry fires.
func (j *WorkHoursJob) ScheduleAll(lister DriverLister) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.entries[allDrivers]; ok {
		return
	}
	j.entries[allDrivers] = j.cron.Schedule(j.schedule, cron.FuncJob(func() { j.resetAll(lister) }))
	logrus.Debug("work hours reset scheduled for all drivers")
}

func (j *WorkHoursJob) Unschedule(driverID uint) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if id, ok := j.entries[driverID]; ok {
		j.cron.Remove(id)
		delete(j.entries, driverID)
	}
}

func (j *WorkHoursJob) reset(driverID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	defer cancel()
	if err := j.resetter.ResetWorkHours(ctx, driverID); err != nil {
		logrus.WithError(err).WithField("driver_id", driverID).Error("work hours reset failed")
		return
	}
	logrus.WithField("driver_id", driverID).Info("work hours reset")
}

func (j *WorkHoursJob) resetAll(lister DriverLister) {
	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	ids, err := lister.DriverIDs(ctx)
	cancel()
	if err != nil {
		logrus.WithError(err).Error("list drivers for work hours reset")
		return
	}
	for _, id := range ids {
		j.reset(id)
	}
}

// Entries lists the scheduled resets.
func (j *WorkHoursJob) Entries() []cron.Entry { return j.cron.Entries() }

func (j *WorkHoursJob) Start() { j.cron.Start() }

// Stop halts the timer and waits for running resets to finish or ctx to end.
func (j *WorkHoursJob) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}
