// Package app wires a ranking run end to end: restore persisted state, merge
// freshly discovered photos, run the match-up rounds, persist the updated
// collection and render the report.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pixrank/pixrank/internal/adapters/report"
	"github.com/pixrank/pixrank/internal/domain/model"
	"github.com/pixrank/pixrank/internal/domain/rating"
	"github.com/pixrank/pixrank/pkg/logger"
)

// Store persists and restores rating state.
type Store interface {
	Load(path string) ([]*model.Photo, error)
	Save(photos []*model.Photo, path string) error
}

// Scanner finds candidate photo files in a directory.
type Scanner interface {
	Scan(dir string) ([]string, error)
}

// Loader prepares a photo for display. It fails when the backing file is
// unavailable, which aborts the whole run before any match-up is scheduled.
type Loader interface {
	Prepare(ctx context.Context, filename string) (width, height int, err error)
}

// Service drives one ranking run.
type Service struct {
	table   *rating.Table
	store   Store
	scanner Scanner
	loader  Loader
	judge   rating.Judge

	rounds     int
	kFactor    float64
	photoDir   string
	stateFile  string
	reportFile string
	echo       io.Writer

	seed   int64
	seeded bool

	log logger.Logger
}

// New constructs a Service with default configuration. The store, scanner,
// loader and judge collaborators must be supplied through options.
func New(opts ...Option) *Service {
	s := &Service{
		rounds:     3,
		kFactor:    rating.DefaultKFactor,
		photoDir:   ".",
		stateFile:  "ranking_table.json",
		reportFile: "ranked.txt",
		echo:       os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	tableOpts := []rating.Option{rating.WithKFactor(s.kFactor)}
	if s.seeded {
		tableOpts = append(tableOpts, rating.WithSeed(s.seed))
	}
	s.table = rating.NewTable(tableOpts...)
	return s
}

// Run executes the full ranking flow. An aborted run is not an error: the
// match-ups scored before the abort are persisted and reported. Errors from
// state loading, photo preparation, saving or reporting abort the run.
func (s *Service) Run(ctx context.Context) error {
	restored, err := s.store.Load(s.stateFile)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}

	s.log.Info(ctx, "reading photos and downsampling",
		logger.Int("restored", len(restored)),
		logger.String("state_file", s.stateFile))

	// Every photo goes through the loader before it may be matched: a
	// missing or undecodable file fails the run here, not mid-round.
	for _, p := range restored {
		if err := s.admit(ctx, p.Filename()); err != nil {
			return err
		}
		s.table.AddPhoto(p)
	}

	scanned, err := s.scanner.Scan(s.photoDir)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	s.log.Info(ctx, "scanned photo directory",
		logger.String("dir", s.photoDir),
		logger.Int("found", len(scanned)))

	for _, filename := range scanned {
		if s.table.Has(filename) {
			continue
		}
		if err := s.admit(ctx, filename); err != nil {
			return err
		}
		s.table.AddByIdentifier(filename)
	}

	played, aborted := s.table.RunRounds(ctx, s.rounds, s.judge)
	if aborted {
		s.log.Warn(ctx, "ranking aborted; keeping completed match-ups",
			logger.Int("matches_played", played))
	} else {
		s.log.Info(ctx, "ranking complete",
			logger.Int("rounds", s.rounds),
			logger.Int("matches_played", played))
	}

	ranked := s.table.RankedView()
	if err := s.store.Save(ranked, s.stateFile); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := report.WriteFile(s.reportFile, ranked); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	fmt.Fprintln(s.echo, "Final Ranking:")
	if err := report.Render(s.echo, ranked); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return nil
}

// Table exposes the rating table, mainly for tests.
func (s *Service) Table() *rating.Table {
	return s.table
}

func (s *Service) admit(ctx context.Context, filename string) error {
	width, height, err := s.loader.Prepare(ctx, filename)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	s.log.Debug(ctx, "photo prepared",
		logger.String("filename", filename),
		logger.Int("width", width),
		logger.Int("height", height))
	return nil
}
