package app

import (
	"io"

	"github.com/pixrank/pixrank/internal/domain/rating"
	"github.com/pixrank/pixrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the state store collaborator.
func WithStore(store Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScanner sets the photo discovery collaborator.
func WithScanner(scanner Scanner) Option {
	return func(s *Service) {
		if scanner != nil {
			s.scanner = scanner
		}
	}
}

// WithLoader sets the photo loading collaborator.
func WithLoader(loader Loader) Option {
	return func(s *Service) {
		if loader != nil {
			s.loader = loader
		}
	}
}

// WithJudge sets the match-up judge.
func WithJudge(judge rating.Judge) Option {
	return func(s *Service) {
		if judge != nil {
			s.judge = judge
		}
	}
}

// WithRounds sets the number of passes through the photo set.
func WithRounds(rounds int) Option {
	return func(s *Service) {
		if rounds > 0 {
			s.rounds = rounds
		}
	}
}

// WithKFactor sets the maximum per-match score swing.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.kFactor = k
		}
	}
}

// WithPhotoDir sets the directory scanned for photos.
func WithPhotoDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.photoDir = dir
		}
	}
}

// WithStateFile sets the rating-state JSON path.
func WithStateFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.stateFile = path
		}
	}
}

// WithReportFile sets the ranked report path.
func WithReportFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.reportFile = path
		}
	}
}

// WithReportEcho sets where the final ranking is echoed after the run.
func WithReportEcho(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.echo = w
		}
	}
}

// WithScheduleSeed seeds the match-up shuffle for reproducible runs.
// Intended for tests.
func WithScheduleSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
		s.seeded = true
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}
