package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/internal/domain/trigger"
	"github.com/smartystreets/goconvey/convey"
)

func comboDefinition() model.Definition {
	return model.Definition{
		Type:     model.BarDiamondCombo,
		BarColor: model.White,
		Parts: []model.Part{
			{
				Triggers:   []trigger.ID{trigger.EffectID(1211)},
				Duration:   15,
				Bar:        true,
				Diamond:    true,
				MaxCharges: 3,
				Color:      model.LightBlue,
			},
			{
				Triggers:   []trigger.ID{trigger.RecastID(7421)},
				CD:         60,
				Bar:        true,
				Diamond:    true,
				MaxCharges: 2,
				Color:      model.Red,
			},
		},
	}
}

func TestDefinition(t *testing.T) {
	convey.Convey("Given a combo definition", t, func() {
		def := comboDefinition()

		convey.Convey("Then it validates and sums diamond charges", func() {
			convey.So(def.Validate("triplecast"), convey.ShouldBeNil)
			convey.So(def.TotalDiamonds(), convey.ShouldEqual, 5)
		})

		convey.Convey("When a part does not participate in diamonds", func() {
			def.Parts[1].Diamond = false

			convey.Convey("Then its charges do not count", func() {
				convey.So(def.TotalDiamonds(), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When cloning", func() {
			clone := def.Clone()
			clone.Parts[0].Triggers[0] = trigger.EffectID(1)
			clone.Parts[1].MaxCharges = 9

			convey.Convey("Then the original is untouched", func() {
				convey.So(def.Parts[0].Triggers[0], convey.ShouldResemble, trigger.EffectID(1211))
				convey.So(def.Parts[1].MaxCharges, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When same color is off", func() {
			convey.Convey("Then parts keep their own colors", func() {
				convey.So(def.PartColors(), convey.ShouldResemble, []model.Color{model.LightBlue, model.Red})
			})
		})

		convey.Convey("When same color is on", func() {
			def.SameColor = true

			convey.Convey("Then every part takes the bar color", func() {
				convey.So(def.PartColors(), convey.ShouldResemble, []model.Color{model.White, model.White})
			})
		})

		convey.Convey("When overlaying preferences", func() {
			muted := true
			out := def.WithPreferences(model.Preferences{BarColor: model.Green, Type: model.Bar, NoSoundOnFull: &muted})

			convey.Convey("Then set fields override and the source is unchanged", func() {
				convey.So(out.BarColor, convey.ShouldEqual, model.Green)
				convey.So(out.Type, convey.ShouldEqual, model.Bar)
				convey.So(out.NoSoundOnFull, convey.ShouldBeTrue)
				convey.So(def.Type, convey.ShouldEqual, model.BarDiamondCombo)
			})
		})

		convey.Convey("When overlaying empty preferences", func() {
			out := def.WithPreferences(model.Preferences{})

			convey.Convey("Then nothing changes", func() {
				convey.So(out, convey.ShouldResemble, def)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given malformed definitions", t, func() {
		cases := []struct {
			name   string
			mutate func(d *model.Definition)
		}{
			{"no parts", func(d *model.Definition) { d.Parts = nil }},
			{"unknown type", func(d *model.Definition) { d.Type = 0 }},
			{"no triggers", func(d *model.Definition) { d.Parts[0].Triggers = nil }},
			{"negative charges", func(d *model.Definition) { d.Parts[0].MaxCharges = -1 }},
			{"missing cd", func(d *model.Definition) { d.Parts[1].CD = 0 }},
			{"missing duration", func(d *model.Definition) { d.Parts[0].Duration = 0 }},
			{"capacity mismatch", func(d *model.Definition) { d.Capacity = 4 }},
			{"kindless trigger", func(d *model.Definition) { d.Parts[0].Triggers = []trigger.ID{{Key: 4}} }},
			{"empty diamond type", func(d *model.Definition) { d.Type = model.Diamond; d.Parts[0].Diamond = false; d.Parts[1].Diamond = false }},
		}

		for _, tc := range cases {
			convey.Convey("When the definition has "+tc.name, func() {
				def := comboDefinition()
				tc.mutate(&def)
				err := def.Validate("g")

				convey.Convey("Then construction fails with a configuration error", func() {
					var cfgErr *model.ConfigurationError
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, model.ErrInvalidDefinition), convey.ShouldBeTrue)
					convey.So(errors.As(err, &cfgErr), convey.ShouldBeTrue)
					convey.So(cfgErr.Gauge, convey.ShouldEqual, "g")
				})
			})
		}

		convey.Convey("When a timed part only feeds diamonds", func() {
			def := comboDefinition()
			def.Parts[0].Bar = false
			def.Parts[0].Duration = 0

			convey.Convey("Then no duration is required", func() {
				convey.So(def.Validate("g"), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the declared capacity matches", func() {
			def := comboDefinition()
			def.Capacity = 5

			convey.Convey("Then it validates", func() {
				convey.So(def.Validate("g"), convey.ShouldBeNil)
			})
		})
	})
}

func TestVisualTypeAndColor(t *testing.T) {
	convey.Convey("Given textual visual types", t, func() {
		v, err := model.ParseVisualType("Bar-Diamond-Combo")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, model.BarDiamondCombo)
		convey.So(v.HasBar() && v.HasDiamonds(), convey.ShouldBeTrue)

		var parsed model.VisualType
		convey.So(parsed.UnmarshalText([]byte("diamond")), convey.ShouldBeNil)
		convey.So(parsed, convey.ShouldEqual, model.Diamond)
		convey.So(parsed.HasBar(), convey.ShouldBeFalse)

		_, err = model.ParseVisualType("arrow")
		convey.So(errors.Is(err, model.ErrUnknownVisualType), convey.ShouldBeTrue)
	})

	convey.Convey("Given textual colors", t, func() {
		c, err := model.ParseColor("light blue")
		convey.So(err, convey.ShouldBeNil)
		convey.So(c, convey.ShouldEqual, model.LightBlue)

		c, err = model.ParseColor("#a0b1c2")
		convey.So(err, convey.ShouldBeNil)
		convey.So(c, convey.ShouldEqual, model.Color("#A0B1C2"))

		_, err = model.ParseColor("chartreuse-ish")
		convey.So(errors.Is(err, model.ErrUnknownColor), convey.ShouldBeTrue)
	})
}
