package rating_test

import (
	"context"
	"testing"

	model "github.com/pixrank/pixrank/internal/domain/model"
	rating "github.com/pixrank/pixrank/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

// pickByName returns a judge that always favors the photo with the given
// filename, wherever the shuffle placed it.
func pickByName(name string) rating.JudgeFunc {
	return func(_ context.Context, left, _ *model.Photo, _ string) rating.Decision {
		if left.Filename() == name {
			return rating.ChoseLeft
		}
		return rating.ChoseRight
	}
}

func TestTableAdd(t *testing.T) {
	Convey("Given an empty table", t, func() {
		table := rating.NewTable()

		Convey("When a filename is admitted twice", func() {
			first := table.AddByIdentifier("a.jpg")
			second := table.AddByIdentifier("a.jpg")

			Convey("Then only the first admission counts", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				So(table.Len(), ShouldEqual, 1)
			})
		})

		Convey("When a restored photo collides with an existing filename", func() {
			restored := model.NewPhoto("a.jpg", model.WithScore(1550), model.WithRecord(4, 3))
			So(table.AddPhoto(restored), ShouldBeTrue)

			fresh := model.NewPhoto("a.jpg")
			added := table.AddPhoto(fresh)

			Convey("Then the existing rating state is preserved", func() {
				So(added, ShouldBeFalse)
				view := table.RankedView()
				So(view, ShouldHaveLength, 1)
				So(view[0].Score(), ShouldEqual, 1550)
				So(view[0].Matches(), ShouldEqual, 4)
				So(view[0].Wins(), ShouldEqual, 3)
			})
		})

		Convey("When a scanned filename joins after restored state", func() {
			So(table.AddPhoto(model.NewPhoto("old.jpg", model.WithScore(1600), model.WithRecord(2, 2))), ShouldBeTrue)
			So(table.AddByIdentifier("old.jpg"), ShouldBeFalse)

			Convey("Then the merge never resets history", func() {
				view := table.RankedView()
				So(view, ShouldHaveLength, 1)
				So(view[0].Score(), ShouldEqual, 1600)
			})
		})
	})
}

func TestTableRankedView(t *testing.T) {
	Convey("Given a table with mixed scores", t, func() {
		table := rating.NewTable()
		So(table.AddPhoto(model.NewPhoto("mid.jpg", model.WithScore(1450))), ShouldBeTrue)
		So(table.AddPhoto(model.NewPhoto("top.jpg", model.WithScore(1700))), ShouldBeTrue)
		So(table.AddPhoto(model.NewPhoto("low.jpg", model.WithScore(1200))), ShouldBeTrue)

		Convey("Then the view is ordered by score descending", func() {
			view := table.RankedView()
			So(view, ShouldHaveLength, 3)
			So(view[0].Filename(), ShouldEqual, "top.jpg")
			So(view[1].Filename(), ShouldEqual, "mid.jpg")
			So(view[2].Filename(), ShouldEqual, "low.jpg")
		})

		Convey("Then re-invocation without mutation returns the same order", func() {
			first := table.RankedView()
			second := table.RankedView()
			for i := range first {
				So(second[i].Filename(), ShouldEqual, first[i].Filename())
			}
		})
	})

	Convey("Given the same photos inserted in different orders", t, func() {
		build := func(order []string) *rating.Table {
			table := rating.NewTable()
			for _, f := range order {
				So(table.AddPhoto(model.NewPhoto(f, model.WithScore(1400+float64(len(f))))), ShouldBeTrue)
			}
			return table
		}
		first := build([]string{"bb.jpg", "a.jpg", "ccc.jpg"})
		second := build([]string{"ccc.jpg", "bb.jpg", "a.jpg"})

		Convey("Then both tables rank identically", func() {
			fv, sv := first.RankedView(), second.RankedView()
			So(fv, ShouldHaveLength, 3)
			for i := range fv {
				So(sv[i].Filename(), ShouldEqual, fv[i].Filename())
				So(sv[i].Score(), ShouldEqual, fv[i].Score())
			}
		})
	})

	Convey("Given photos with identical scores", t, func() {
		table := rating.NewTable()
		So(table.AddByIdentifier("zebra.jpg"), ShouldBeTrue)
		So(table.AddByIdentifier("apple.jpg"), ShouldBeTrue)
		So(table.AddByIdentifier("mango.jpg"), ShouldBeTrue)

		Convey("Then ties break by filename ascending", func() {
			view := table.RankedView()
			So(view[0].Filename(), ShouldEqual, "apple.jpg")
			So(view[1].Filename(), ShouldEqual, "mango.jpg")
			So(view[2].Filename(), ShouldEqual, "zebra.jpg")
		})
	})
}

func TestEloUpdate(t *testing.T) {
	Convey("Given two evenly rated photos and K=32", t, func() {
		table := rating.NewTable(rating.WithKFactor(32), rating.WithSeed(1))
		So(table.AddByIdentifier("a.jpg"), ShouldBeTrue)
		So(table.AddByIdentifier("b.jpg"), ShouldBeTrue)

		Convey("When a.jpg wins one match-up", func() {
			played, aborted := table.RunRounds(context.Background(), 1, pickByName("a.jpg"))
			So(played, ShouldEqual, 1)
			So(aborted, ShouldBeFalse)

			Convey("Then the winner gains and the loser drops half the K", func() {
				byName := viewByName(table)
				So(byName["a.jpg"].Score(), ShouldAlmostEqual, 1416.0, 1e-9)
				So(byName["b.jpg"].Score(), ShouldAlmostEqual, 1384.0, 1e-9)
				So(byName["a.jpg"].Wins(), ShouldEqual, 1)
				So(byName["a.jpg"].Matches(), ShouldEqual, 1)
				So(byName["b.jpg"].Wins(), ShouldEqual, 0)
				So(byName["b.jpg"].Matches(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a 1600 favorite beating a 1400 underdog with K=32", t, func() {
		table := rating.NewTable(rating.WithKFactor(32), rating.WithSeed(1))
		So(table.AddPhoto(model.NewPhoto("strong.jpg", model.WithScore(1600))), ShouldBeTrue)
		So(table.AddPhoto(model.NewPhoto("weak.jpg", model.WithScore(1400))), ShouldBeTrue)

		played, aborted := table.RunRounds(context.Background(), 1, pickByName("strong.jpg"))
		So(played, ShouldEqual, 1)
		So(aborted, ShouldBeFalse)

		Convey("Then both expectations are honored independently", func() {
			// Ea = 1/(1+10^((1600-1400)/400)) ~= 0.2403, so the favorite
			// still gains K*(1-Ea) ~= 24.31 and the underdog drops the same.
			byName := viewByName(table)
			So(byName["strong.jpg"].Score(), ShouldAlmostEqual, 1624.31, 0.01)
			So(byName["weak.jpg"].Score(), ShouldAlmostEqual, 1375.69, 0.01)
		})
	})
}

func TestRunRoundsScheduling(t *testing.T) {
	Convey("Given a table with a single photo", t, func() {
		table := rating.NewTable(rating.WithSeed(7))
		So(table.AddByIdentifier("only.jpg"), ShouldBeTrue)

		Convey("When five rounds are run", func() {
			calls := 0
			counter := rating.JudgeFunc(func(_ context.Context, _, _ *model.Photo, _ string) rating.Decision {
				calls++
				return rating.ChoseLeft
			})
			played, aborted := table.RunRounds(context.Background(), 5, counter)

			Convey("Then the judge is never consulted and nothing changes", func() {
				So(calls, ShouldEqual, 0)
				So(played, ShouldEqual, 0)
				So(aborted, ShouldBeFalse)
				So(table.RankedView()[0].Score(), ShouldEqual, model.DefaultScore)
				So(table.RankedView()[0].Matches(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given an odd number of photos", t, func() {
		table := rating.NewTable(rating.WithSeed(7))
		for _, f := range []string{"a.jpg", "b.jpg", "c.jpg"} {
			So(table.AddByIdentifier(f), ShouldBeTrue)
		}

		Convey("When one round is run", func() {
			calls := 0
			judge := rating.JudgeFunc(func(_ context.Context, _, _ *model.Photo, _ string) rating.Decision {
				calls++
				return rating.ChoseLeft
			})
			played, aborted := table.RunRounds(context.Background(), 1, judge)

			Convey("Then exactly one pair plays and the leftover sits out", func() {
				So(calls, ShouldEqual, 1)
				So(played, ShouldEqual, 1)
				So(aborted, ShouldBeFalse)

				totalMatches := 0
				for _, p := range table.RankedView() {
					totalMatches += p.Matches()
				}
				So(totalMatches, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a judge that aborts immediately", t, func() {
		table := rating.NewTable(rating.WithSeed(7))
		for _, f := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
			So(table.AddByIdentifier(f), ShouldBeTrue)
		}

		Convey("When three rounds are requested", func() {
			played, aborted := table.RunRounds(context.Background(), 3, rating.JudgeFunc(
				func(_ context.Context, _, _ *model.Photo, _ string) rating.Decision {
					return rating.Aborted
				}))

			Convey("Then no rating is altered", func() {
				So(played, ShouldEqual, 0)
				So(aborted, ShouldBeTrue)
				for _, p := range table.RankedView() {
					So(p.Score(), ShouldEqual, model.DefaultScore)
					So(p.Matches(), ShouldEqual, 0)
				}
			})
		})
	})

	Convey("Given a judge that aborts after the first verdict", t, func() {
		table := rating.NewTable(rating.WithSeed(7))
		for _, f := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
			So(table.AddByIdentifier(f), ShouldBeTrue)
		}

		Convey("When the run is aborted mid-round", func() {
			calls := 0
			judge := rating.JudgeFunc(func(_ context.Context, left, _ *model.Photo, _ string) rating.Decision {
				calls++
				if calls == 1 {
					return rating.ChoseLeft
				}
				return rating.Aborted
			})
			played, aborted := table.RunRounds(context.Background(), 3, judge)

			Convey("Then the completed match-up is kept", func() {
				So(played, ShouldEqual, 1)
				So(aborted, ShouldBeTrue)

				totalMatches := 0
				for _, p := range table.RankedView() {
					totalMatches += p.Matches()
				}
				So(totalMatches, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		table := rating.NewTable(rating.WithSeed(7))
		So(table.AddByIdentifier("a.jpg"), ShouldBeTrue)
		So(table.AddByIdentifier("b.jpg"), ShouldBeTrue)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then the run aborts before consulting the judge", func() {
			calls := 0
			played, aborted := table.RunRounds(ctx, 3, rating.JudgeFunc(
				func(_ context.Context, _, _ *model.Photo, _ string) rating.Decision {
					calls++
					return rating.ChoseLeft
				}))
			So(calls, ShouldEqual, 0)
			So(played, ShouldEqual, 0)
			So(aborted, ShouldBeTrue)
		})
	})

	Convey("Given a judge that reports match-up labels", t, func() {
		table := rating.NewTable(rating.WithSeed(7))
		So(table.AddByIdentifier("a.jpg"), ShouldBeTrue)
		So(table.AddByIdentifier("b.jpg"), ShouldBeTrue)

		var titles []string
		judge := rating.JudgeFunc(func(_ context.Context, _, _ *model.Photo, title string) rating.Decision {
			titles = append(titles, title)
			return rating.ChoseLeft
		})

		Convey("When two rounds are run", func() {
			played, _ := table.RunRounds(context.Background(), 2, judge)

			Convey("Then each match-up carries its round and position", func() {
				So(played, ShouldEqual, 2)
				So(titles, ShouldResemble, []string{
					"Round 1 / 2, Match Up 1 / 1",
					"Round 2 / 2, Match Up 1 / 1",
				})
			})
		})
	})

	Convey("Given a judge returning a value outside the contract", t, func() {
		table := rating.NewTable(rating.WithSeed(7))
		So(table.AddByIdentifier("a.jpg"), ShouldBeTrue)
		So(table.AddByIdentifier("b.jpg"), ShouldBeTrue)

		rogue := rating.JudgeFunc(func(_ context.Context, _, _ *model.Photo, _ string) rating.Decision {
			return rating.Decision(42)
		})

		Convey("Then the contract violation is fatal", func() {
			So(func() {
				table.RunRounds(context.Background(), 1, rogue)
			}, ShouldPanic)
		})
	})
}

func TestRunRoundsInvariant(t *testing.T) {
	Convey("Given many rounds of arbitrary verdicts", t, func() {
		table := rating.NewTable(rating.WithSeed(99))
		for _, f := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"} {
			So(table.AddByIdentifier(f), ShouldBeTrue)
		}

		flip := 0
		judge := rating.JudgeFunc(func(_ context.Context, _, _ *model.Photo, _ string) rating.Decision {
			flip++
			if flip%2 == 0 {
				return rating.ChoseRight
			}
			return rating.ChoseLeft
		})

		played, aborted := table.RunRounds(context.Background(), 10, judge)

		Convey("Then wins never exceed matches for any photo", func() {
			So(aborted, ShouldBeFalse)
			So(played, ShouldEqual, 20) // 5 photos -> 2 match-ups per round
			for _, p := range table.RankedView() {
				So(p.Wins(), ShouldBeLessThanOrEqualTo, p.Matches())
			}
		})

		Convey("Then the ranked view stays sorted by non-increasing score", func() {
			view := table.RankedView()
			for i := 1; i < len(view); i++ {
				So(view[i-1].Score(), ShouldBeGreaterThanOrEqualTo, view[i].Score())
			}
		})
	})
}

func viewByName(table *rating.Table) map[string]*model.Photo {
	byName := make(map[string]*model.Photo)
	for _, p := range table.RankedView() {
		byName[p.Filename()] = p
	}
	return byName
}
