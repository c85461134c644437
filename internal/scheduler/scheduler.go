package scheduler

import (
	"log"

	"github.com/bennokress/rss-feeds/internal/runner"
	"github.com/bennokress/rss-feeds/internal/scraper"
	"github.com/robfig/cron/v3"
)

// Scheduler runs all sources on a cron schedule. Sources run one after
// another; a tick that fires while the previous one is still going is
// skipped, so runs against one data directory never overlap.
type Scheduler struct {
	cron    *cron.Cron
	runner  *runner.Runner
	sources []scraper.Source
}

func New(spec string, r *runner.Runner, sources []scraper.Source) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	s := &Scheduler{cron: c, runner: r, sources: sources}
	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }
func (s *Scheduler) Stop()  { s.cron.Stop() }

// RunOnce executes a single pass over all sources, for manual triggering.
func (s *Scheduler) RunOnce() { s.runOnce() }

func (s *Scheduler) runOnce() {
	log.Println("start scrape job...")

	for _, src := range s.sources {
		res, err := s.runner.Run(src)
		if err != nil {
			log.Printf("scrape %s error: %v", src.Name(), err)
			continue
		}
		log.Printf("%s done, updated=%d total=%d", src.Name(), len(res.Updated), len(res.Merged))
	}

	log.Println("scrape job done (all sources)")
}
