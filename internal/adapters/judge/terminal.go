// Package judge implements the interactive match-up judge.
package judge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pixrank/pixrank/internal/domain/model"
	"github.com/pixrank/pixrank/internal/domain/rating"
)

// Terminal presents match-ups on a text terminal and reads the verdict from
// a line of input. It blocks until the user answers; the only way out is an
// explicit quit (or end of input), which maps to Aborted.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a judge reading verdicts from in and prompting on out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Pick shows both photos of a match-up and blocks for the user's verdict.
// Accepted answers: 1/l/left, 2/r/right, q/quit. Anything else re-prompts.
// It never mutates the photos.
func (t *Terminal) Pick(ctx context.Context, left, right *model.Photo, title string) rating.Decision {
	fmt.Fprintf(t.out, "\n%s\n", title)
	fmt.Fprintf(t.out, "  [1] %s  (%s)\n", left.Filename(), describe(left))
	fmt.Fprintf(t.out, "  [2] %s  (%s)\n", right.Filename(), describe(right))

	for {
		if ctx.Err() != nil {
			return rating.Aborted
		}

		fmt.Fprint(t.out, "Pick the better photo [1/2, q to quit]: ")
		line, err := t.in.ReadString('\n')
		if err != nil && line == "" {
			// End of input; nothing more to judge.
			return rating.Aborted
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "1", "l", "left":
			return rating.ChoseLeft
		case "2", "r", "right":
			return rating.ChoseRight
		case "q", "quit":
			return rating.Aborted
		}
		fmt.Fprintln(t.out, "Please answer 1, 2 or q.")
		if err != nil {
			// Partial final line already consumed; treat as end of input.
			return rating.Aborted
		}
	}
}

func describe(p *model.Photo) string {
	if pct, ok := p.WinPercentage(); ok {
		return fmt.Sprintf("score %.1f, %d matches, %.0f%% wins", p.Score(), p.Matches(), pct)
	}
	return fmt.Sprintf("score %.1f, unplayed", p.Score())
}
