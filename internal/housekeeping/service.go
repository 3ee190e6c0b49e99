// Package housekeeping runs the small maintenance jobs an unattended
// installation needs: pruning the playout audit log and checking that the
// strike file set is still complete.
package housekeeping

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"carillon/internal/audio"
	"carillon/internal/storage"
	logx "carillon/pkg/logx"
)

type Config struct {
	Retention time.Duration // audit rows older than this are pruned
}

type Service struct {
	cfg   Config
	lib   audio.Library
	audit storage.Store // may be nil
	log   logx.Logger

	c *cron.Cron
}

func New(cfg Config, lib audio.Library, audit storage.Store, log logx.Logger) *Service {
	if cfg.Retention <= 0 {
		cfg.Retention = 90 * 24 * time.Hour
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{cfg: cfg, lib: lib, audit: audit, log: log}
}

// Start registers the nightly jobs. Both run in the small hours so they
// never contend with daytime chimes for the audit store.
func (s *Service) Start() error {
	s.c = cron.New()
	if _, err := s.c.AddFunc("15 3 * * *", s.checkStrikes); err != nil {
		return err
	}
	if s.audit != nil {
		if _, err := s.c.AddFunc("30 3 * * *", s.pruneAudit); err != nil {
			return err
		}
	}
	s.c.Start()
	s.log.Info("housekeeping started", logx.Duration("retention", s.cfg.Retention))
	return nil
}

func (s *Service) Stop() {
	if s.c == nil {
		return
	}
	<-s.c.Stop().Done()
	s.c = nil
	s.log.Info("housekeeping stopped")
}

func (s *Service) pruneAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.cfg.Retention)
	n, err := s.audit.PrunePlays(ctx, cutoff)
	if err != nil {
		s.log.Warn("audit prune failed", logx.Err(err))
		return
	}
	if n > 0 {
		s.log.Info("audit pruned", logx.Int64("removed", n), logx.Time("cutoff", cutoff))
	}
}

func (s *Service) checkStrikes() {
	if err := s.lib.VerifyStrikes(); err != nil {
		s.log.Warn("strike file set incomplete", logx.Err(err))
	}
}
