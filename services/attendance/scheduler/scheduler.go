package scheduler

import (
	"context"
	"time"

	"fichai/domain"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config holds the cron expressions of the periodic scans and the time budget
// of a single run.
type Config struct {
	MissingCheckoutSpec string
	AbsenceSpec         string
	RunTimeout          time.Duration
}

type Scheduler struct {
	cron *cron.Cron
	uc   domain.ScanUseCase
	log  *logrus.Logger
	cfg  Config
}

var nowFunc = time.Now

func NewScheduler(uc domain.ScanUseCase, cfg Config, log *logrus.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(log)),
		cron.SkipIfStillRunning(cron.PrintfLogger(log)),
	))

	s := &Scheduler{
		cron: c,
		uc:   uc,
		log:  log,
		cfg:  cfg,
	}

	if _, err := c.AddFunc(cfg.MissingCheckoutSpec, s.job("missing_checkout", uc.ScanMissingCheckouts)); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(cfg.AbsenceSpec, s.job("absence", uc.ScanAbsences)); err != nil {
		return nil, err
	}

	return s, nil
}

type scanFunc func(ctx context.Context, now time.Time) (int, error)

func (s *Scheduler) job(name string, scan scanFunc) func() {
	return func() {
		s.run(name, scan)
	}
}

func (s *Scheduler) run(name string, scan scanFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	defer cancel()

	started := nowFunc()
	raised, err := scan(ctx, started)
	entry := s.log.WithFields(logrus.Fields{
		"job":      name,
		"raised":   raised,
		"duration": time.Since(started).String(),
	})
	if err != nil {
		entry.WithError(err).Error("scan failed")
		return
	}
	entry.Info("scan finished")
}

func (s *Scheduler) Start() {
	s.log.WithFields(logrus.Fields{
		"missing_checkout": s.cfg.MissingCheckoutSpec,
		"absence":          s.cfg.AbsenceSpec,
	}).Info("Starting scheduler")
	s.cron.Start()
}

// Stop waits for running jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}
