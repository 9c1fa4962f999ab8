package telemetry_test

import (
	"errors"
	"testing"

	"github.com/okian/chargegauge/internal/telemetry"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	buffTriplecast   = 1211
	recastTriplecast = 7421
)

func TestTimelineEffects(t *testing.T) {
	Convey("Given an effect applied at t=2 for 15s with 3 stacks", t, func() {
		tl := telemetry.NewTimeline()
		So(tl.ApplyEffect(2, buffTriplecast, 15, 3), ShouldBeNil)

		Convey("Then it is absent before and after its window", func() {
			_, before := tl.FrameAt(1).Effect(buffTriplecast)
			_, after := tl.FrameAt(17).Effect(buffTriplecast)
			So(before, ShouldBeFalse)
			So(after, ShouldBeFalse)
		})

		Convey("Then the remaining time counts down", func() {
			st, ok := tl.FrameAt(9.5).Effect(buffTriplecast)
			So(ok, ShouldBeTrue)
			So(st.Remaining, ShouldAlmostEqual, 7.5)
			So(st.Stacks, ShouldEqual, 3)
		})

		Convey("When stacks drop, the expiry is kept", func() {
			So(tl.SetStacks(5, buffTriplecast, 1), ShouldBeNil)
			st, ok := tl.FrameAt(6).Effect(buffTriplecast)
			So(ok, ShouldBeTrue)
			So(st.Stacks, ShouldEqual, 1)
			So(st.Remaining, ShouldAlmostEqual, 11)

			early, _ := tl.FrameAt(4).Effect(buffTriplecast)
			So(early.Stacks, ShouldEqual, 3)
		})

		Convey("When stacks drop to zero, the effect ends", func() {
			So(tl.SetStacks(5, buffTriplecast, 0), ShouldBeNil)
			_, ok := tl.FrameAt(5).Effect(buffTriplecast)
			So(ok, ShouldBeFalse)
		})

		Convey("When it is removed early", func() {
			So(tl.RemoveEffect(8, buffTriplecast), ShouldBeNil)
			_, ok := tl.FrameAt(8).Effect(buffTriplecast)
			So(ok, ShouldBeFalse)
			_, stillBefore := tl.FrameAt(7.9).Effect(buffTriplecast)
			So(stillBefore, ShouldBeTrue)
		})

		Convey("When it is reapplied, the duration refreshes", func() {
			So(tl.ApplyEffect(10, buffTriplecast, 15, 2), ShouldBeNil)
			st, ok := tl.FrameAt(20).Effect(buffTriplecast)
			So(ok, ShouldBeTrue)
			So(st.Remaining, ShouldAlmostEqual, 5)
			So(st.Stacks, ShouldEqual, 2)
		})

		Convey("Then events out of order are rejected", func() {
			So(tl.RemoveEffect(8, buffTriplecast), ShouldBeNil)
			So(errors.Is(tl.ApplyEffect(1, buffTriplecast, 15, 3), telemetry.ErrOutOfOrder), ShouldBeTrue)
		})

		Convey("Then changing stacks of an inactive effect fails", func() {
			So(errors.Is(tl.SetStacks(30, buffTriplecast, 1), telemetry.ErrNotActive), ShouldBeTrue)
		})
	})
}

func TestTimelineCharges(t *testing.T) {
	Convey("Given a two-charge ability with a 60s recast", t, func() {
		tl := telemetry.NewTimeline()
		So(tl.RegisterAbility(recastTriplecast, 60, 2), ShouldBeNil)

		Convey("Then it starts full and idle", func() {
			n, err := tl.Charges(0, recastTriplecast)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			_, running := tl.FrameAt(0).Recast(recastTriplecast)
			So(running, ShouldBeFalse)
		})

		Convey("When used once at full charges", func() {
			So(tl.UseAbility(10, recastTriplecast), ShouldBeNil)

			Convey("Then the recast starts one cycle short of full", func() {
				elapsed, running := tl.FrameAt(10).Recast(recastTriplecast)
				So(running, ShouldBeTrue)
				So(elapsed, ShouldAlmostEqual, 60)
				n, _ := tl.Charges(10, recastTriplecast)
				So(n, ShouldEqual, 1)
			})

			Convey("And it stops once every charge is back", func() {
				_, running := tl.FrameAt(70).Recast(recastTriplecast)
				So(running, ShouldBeFalse)
				elapsed, running := tl.FrameAt(69).Recast(recastTriplecast)
				So(running, ShouldBeTrue)
				So(elapsed, ShouldAlmostEqual, 119)
			})

			Convey("And a second use moves elapsed back one cycle", func() {
				So(tl.UseAbility(20, recastTriplecast), ShouldBeNil)
				elapsed, _ := tl.FrameAt(20).Recast(recastTriplecast)
				So(elapsed, ShouldAlmostEqual, 10)
				n, _ := tl.Charges(20, recastTriplecast)
				So(n, ShouldEqual, 0)

				Convey("And a third use without a charge is rejected", func() {
					err := tl.UseAbility(30, recastTriplecast)
					So(errors.Is(err, telemetry.ErrNoCharge), ShouldBeTrue)
				})

				Convey("And the timeline ends when the last charge returns", func() {
					So(tl.End(), ShouldAlmostEqual, 130)
				})
			})
		})

		Convey("Then uses of unknown abilities fail", func() {
			So(errors.Is(tl.UseAbility(1, 9999), telemetry.ErrUnknownAbility), ShouldBeTrue)
		})
	})

	Convey("Given invalid ability parameters", t, func() {
		tl := telemetry.NewTimeline()
		So(errors.Is(tl.RegisterAbility(1, 0, 2), telemetry.ErrInvalidEvent), ShouldBeTrue)
		So(errors.Is(tl.RegisterAbility(1, 30, 0), telemetry.ErrInvalidEvent), ShouldBeTrue)
		So(errors.Is(tl.ApplyEffect(0, 1, 0, 1), telemetry.ErrInvalidEvent), ShouldBeTrue)
	})
}

func TestScript(t *testing.T) {
	Convey("Given the built-in script", t, func() {
		s := telemetry.DefaultScript()
		tl, err := s.Timeline()

		Convey("Then it builds a timeline for BLM", func() {
			So(err, ShouldBeNil)
			So(s.Job, ShouldEqual, "BLM")

			st, ok := tl.FrameAt(4).Effect(buffTriplecast)
			So(ok, ShouldBeTrue)
			So(st.Stacks, ShouldEqual, 2)

			_, ok = tl.FrameAt(9).Effect(buffTriplecast)
			So(ok, ShouldBeFalse)

			elapsed, running := tl.FrameAt(20).Recast(recastTriplecast)
			So(running, ShouldBeTrue)
			So(elapsed, ShouldAlmostEqual, 19)
		})
	})

	Convey("Given scripts with errors", t, func() {
		_, unknownKey := telemetry.ParseScript([]byte("job = \"BLM\"\nspeed = 2\n"))
		So(errors.Is(unknownKey, telemetry.ErrParse), ShouldBeTrue)

		s, err := telemetry.ParseScript([]byte(`
[[event]]
at = 1
kind = "teleport"
key = 1
`))
		So(err, ShouldBeNil)
		_, err = s.Timeline()
		So(errors.Is(err, telemetry.ErrInvalidEvent), ShouldBeTrue)

		s, err = telemetry.ParseScript([]byte(`
[[event]]
at = 1
kind = "use"
key = 7421
`))
		So(err, ShouldBeNil)
		_, err = s.Timeline()
		So(errors.Is(err, telemetry.ErrUnknownAbility), ShouldBeTrue)
	})
}
