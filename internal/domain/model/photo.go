// Package model contains domain models passed between layers.
package model

// DefaultScore is the rating a photo starts with before any match-up.
const DefaultScore = 1400.0

// Photo holds the identity and rating state of one photograph.
//
// The zero value is not useful; construct with NewPhoto. All rating state is
// unexported so that RecordResult stays the only mutation path, which keeps
// wins <= matches by construction.
type Photo struct {
	filename string
	score    float64
	matches  int
	wins     int
}

// PhotoOption applies a configuration option to a Photo.
type PhotoOption func(*Photo)

// WithScore sets the starting score, e.g. when restoring persisted state.
func WithScore(score float64) PhotoOption {
	return func(p *Photo) {
		p.score = score
	}
}

// WithRecord sets the match and win counters, e.g. when restoring persisted
// state. A record that cannot exist (negative counters, or more wins than
// matches) is ignored as a whole.
func WithRecord(matches, wins int) PhotoOption {
	return func(p *Photo) {
		if matches < 0 || wins < 0 || wins > matches {
			return
		}
		p.matches = matches
		p.wins = wins
	}
}

// NewPhoto creates a photo for the given filename with the default score and
// an empty match record unless options say otherwise.
func NewPhoto(filename string, opts ...PhotoOption) *Photo {
	p := &Photo{
		filename: filename,
		score:    DefaultScore,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Filename returns the photo's identifier.
func (p *Photo) Filename() string { return p.filename }

// Score returns the current rating.
func (p *Photo) Score() float64 { return p.score }

// Matches returns the number of match-ups the photo has taken part in.
func (p *Photo) Matches() int { return p.matches }

// Wins returns the number of match-ups the photo has won.
func (p *Photo) Wins() int { return p.wins }

// RecordResult applies the outcome of one match-up: the new score replaces
// the old one, the match counter advances, and the win counter advances only
// for the winner.
func (p *Photo) RecordResult(newScore float64, won bool) {
	p.score = newScore
	p.matches++
	if won {
		p.wins++
	}
}

// WinPercentage returns the percentage of match-ups won. The second return
// value is false when the photo has not played yet; the percentage is
// undefined in that case and callers must render a sentinel instead.
func (p *Photo) WinPercentage() (float64, bool) {
	if p.matches == 0 {
		return 0, false
	}
	return 100.0 * float64(p.wins) / float64(p.matches), true
}

// Equal reports whether two photos refer to the same file. Rating state does
// not take part in equality.
func (p *Photo) Equal(other *Photo) bool {
	if other == nil {
		return false
	}
	return p.filename == other.filename
}
