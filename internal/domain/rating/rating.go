// Package rating implements the Elo table that ranks photos through
// pairwise match-ups.
package rating

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/pixrank/pixrank/internal/domain/model"
	"github.com/pixrank/pixrank/pkg/metrics"
)

// Decision is a judge's verdict on one match-up.
type Decision int

// Valid judge decisions. Anything else is a programming error.
const (
	ChoseLeft Decision = iota
	ChoseRight
	Aborted
)

// String returns a human-readable name for logging.
func (d Decision) String() string {
	switch d {
	case ChoseLeft:
		return "left"
	case ChoseRight:
		return "right"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Judge presents one match-up to the user and blocks until a verdict is
// given. Implementations must not mutate either photo and must return one of
// ChoseLeft, ChoseRight or Aborted.
type Judge interface {
	Pick(ctx context.Context, left, right *model.Photo, title string) Decision
}

// JudgeFunc adapts a plain function to the Judge interface.
type JudgeFunc func(ctx context.Context, left, right *model.Photo, title string) Decision

// Pick calls f.
func (f JudgeFunc) Pick(ctx context.Context, left, right *model.Photo, title string) Decision {
	return f(ctx, left, right, title)
}

// DefaultKFactor is the maximum score swing a single match-up can produce.
const DefaultKFactor = 32.0

// Table owns the set of rated photos and schedules match-ups between them.
//
// It is not safe for concurrent use: a ranking run is strictly synchronous
// and the table is owned by the single goroutine driving RunRounds.
type Table struct {
	k      float64
	photos map[string]*model.Photo
	rng    *rand.Rand
}

// NewTable creates an empty table with configuration options applied.
func NewTable(opts ...Option) *Table {
	t := &Table{
		k:      DefaultKFactor,
		photos: make(map[string]*model.Photo),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // match-up ordering needs no cryptographic randomness
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// KFactor returns the table's K-factor. It is fixed for the table's lifetime.
func (t *Table) KFactor() float64 { return t.k }

// Len returns the number of photos in the table.
func (t *Table) Len() int { return len(t.photos) }

// AddPhoto merges a pre-built photo, typically restored from persisted state.
// It is idempotent: a filename already in the table keeps its existing state
// and the call reports false.
func (t *Table) AddPhoto(p *model.Photo) bool {
	if p == nil {
		return false
	}
	if _, ok := t.photos[p.Filename()]; ok {
		return false
	}
	t.photos[p.Filename()] = p
	metrics.UpdatePhotosTracked(len(t.photos))
	return true
}

// AddByIdentifier admits a freshly discovered filename with default rating
// state. Like AddPhoto it is idempotent, so a newly scanned file joins a
// pre-existing ranking without resetting its history.
func (t *Table) AddByIdentifier(filename string) bool {
	if _, ok := t.photos[filename]; ok {
		return false
	}
	t.photos[filename] = model.NewPhoto(filename)
	metrics.UpdatePhotosTracked(len(t.photos))
	return true
}

// Has reports whether the filename is already tracked.
func (t *Table) Has(filename string) bool {
	_, ok := t.photos[filename]
	return ok
}

// RankedView returns the photos ordered by score descending, ties broken by
// filename ascending so the order is deterministic. It is a pure read.
func (t *Table) RankedView() []*model.Photo {
	ranked := make([]*model.Photo, 0, len(t.photos))
	for _, p := range t.photos {
		ranked = append(ranked, p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score() != ranked[j].Score() {
			return ranked[i].Score() > ranked[j].Score()
		}
		return ranked[i].Filename() < ranked[j].Filename()
	})
	return ranked
}

// RunRounds schedules the given number of rounds of match-ups. Each round
// shuffles a fresh snapshot of all filenames and pairs them left to right;
// with an odd photo count the last filename sits the round out. Every pair is
// handed to the judge, whose verdict feeds the Elo update.
//
// An Aborted verdict (or context cancellation between match-ups) stops
// scheduling immediately: remaining pairs and rounds are skipped, match-ups
// already scored are kept. Returns the number of scored match-ups and whether
// the run was aborted early.
func (t *Table) RunRounds(ctx context.Context, rounds int, judge Judge) (int, bool) {
	filenames := make([]string, 0, len(t.photos))
	for f := range t.photos {
		filenames = append(filenames, f)
	}
	// Map iteration order is random; sort first so a seeded table schedules
	// reproducibly.
	sort.Strings(filenames)

	played := 0
	for round := 1; round <= rounds; round++ {
		t.rng.Shuffle(len(filenames), func(i, j int) {
			filenames[i], filenames[j] = filenames[j], filenames[i]
		})

		matchUps := len(filenames) / 2
		for m := 0; m < matchUps; m++ {
			if ctx.Err() != nil {
				metrics.RecordAbort()
				return played, true
			}

			left := t.photos[filenames[2*m]]
			right := t.photos[filenames[2*m+1]]
			title := fmt.Sprintf("Round %d / %d, Match Up %d / %d", round, rounds, m+1, matchUps)

			start := time.Now()
			verdict := judge.Pick(ctx, left, right, title)
			metrics.ObserveJudgeDecision(time.Since(start).Seconds())

			switch verdict {
			case ChoseLeft:
				t.scoreResult(left, right)
			case ChoseRight:
				t.scoreResult(right, left)
			case Aborted:
				metrics.RecordAbort()
				return played, true
			default:
				panic(fmt.Sprintf("rating: judge returned invalid decision %q", verdict))
			}

			played++
			metrics.RecordMatchJudged()
		}
		metrics.RecordRoundCompleted()
	}
	return played, false
}

// scoreResult applies the Elo update for one decided match-up. Both
// expectations are computed independently from the scores as they stood
// before the match-up; neither update may observe the other.
func (t *Table) scoreResult(winner, loser *model.Photo) {
	ra := winner.Score()
	rb := loser.Score()

	ea := 1.0 / (1.0 + math.Pow(10.0, (ra-rb)/400.0))
	eb := 1.0 / (1.0 + math.Pow(10.0, (rb-ra)/400.0))

	winner.RecordResult(ra+t.k*(1.0-ea), true)
	loser.RecordResult(rb+t.k*(0.0-eb), false)
}
