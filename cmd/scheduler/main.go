package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"supply_chain/internal/config"
	"supply_chain/internal/jobs"
	"supply_chain/internal/logger"
	"supply_chain/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Setup(logger.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("database unavailable")
	}
	drivers := repository.NewDriverRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.WorkHours.Native {
		ids, err := driverIDs(ctx, cfg, drivers)
		if err != nil {
			logrus.WithError(err).Fatal("could not list drivers")
		}
		if err := createEvents(ctx, cfg, drivers, ids); err != nil {
			logrus.WithError(err).Fatal("could not create work hours events")
		}
		return
	}

	job, err := jobs.NewWorkHoursJob(cfg.WorkHours.Schedule, time.Local, drivers)
	if err != nil {
		logrus.WithError(err).Fatal("invalid work hours schedule")
	}
	if len(cfg.WorkHours.DriverIDs) > 0 {
		for _, id := range cfg.WorkHours.DriverIDs {
			job.Schedule(id)
		}
	} else {
		job.ScheduleAll(drivers)
	}
	job.Start()
	logrus.WithFields(logrus.Fields{"drivers": cfg.WorkHours.DriverIDs, "schedule": cfg.WorkHours.Schedule}).Info("work hours scheduler running")

	<-ctx.Done()
	logrus.Info("stopping scheduler")
	stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	job.Stop(stopCtx)
}

// driverIDs returns the configured drivers, or every driver when none is configured.
func driverIDs(ctx context.Context, cfg *config.Config, drivers *repository.DriverRepository) ([]uint, error) {
	if len(cfg.WorkHours.DriverIDs) > 0 {
		return cfg.WorkHours.DriverIDs, nil
	}
	return drivers.DriverIDs(ctx)
}

func createEvents(ctx context.Context, cfg *config.Config, drivers *repository.DriverRepository, ids []uint) error {
	startsAt, err := time.ParseInLocation(time.DateTime, cfg.WorkHours.StartsAt, time.Local)
	if err != nil {
		return err
	}
	for _, id := range ids {
		err := drivers.CreateWorkHoursEvent(ctx, id, startsAt)
		if errors.Is(err, repository.ErrEventsUnsupported) {
			logrus.WithField("driver", cfg.Database.Driver).Error("native events need DB_DRIVER=mysql")
			return err
		}
		if err != nil {
			return err
		}
		logrus.WithField("driver_id", id).Info("work hours event created")
	}
	return nil
}
