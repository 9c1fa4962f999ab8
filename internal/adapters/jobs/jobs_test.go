package jobs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/chargegauge/internal/adapters/jobs"
	"github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/internal/domain/trigger"
	. "github.com/smartystreets/goconvey/convey"
)

const override = `
[[job]]
id = "blm"
name = "Black Mage (custom)"

  [[job.gauge]]
  name = "Triplecast"
  type = "bar"
  bar_color = "#00ff00"

    [[job.gauge.parts]]
    triggers = ["buff:1211", "action:7421"]
    duration = 15
    cd = 60
    bar = true
    max_charges = 3

[[job]]
id = "SMN"
name = "Summoner"
`

func TestDefaultTables(t *testing.T) {
	Convey("Given the built-in tables", t, func() {
		table, err := jobs.Default()
		So(err, ShouldBeNil)

		Convey("Then every job is listed", func() {
			So(table.IDs(), ShouldResemble, []string{"BLM", "MCH", "NIN", "RDM"})
		})

		Convey("Then every built-in gauge validates", func() {
			for _, id := range table.IDs() {
				job, err := table.Job(id)
				So(err, ShouldBeNil)
				for _, g := range job.Gauges {
					So(g.Definition.Validate(g.Name), ShouldBeNil)
				}
			}
		})

		Convey("Then Triplecast decodes its parts in order", func() {
			job, err := table.Job("blm")
			So(err, ShouldBeNil)
			So(job.Name, ShouldEqual, "Black Mage")
			So(len(job.Gauges), ShouldEqual, 1)

			def := job.Gauges[0].Definition
			So(def.Type, ShouldEqual, model.BarDiamondCombo)
			So(def.BarColor, ShouldEqual, model.BlueGreen)
			So(def.SameColor, ShouldBeTrue)
			So(def.Parts[0].Triggers, ShouldResemble, []trigger.ID{trigger.EffectID(1211)})
			So(def.Parts[0].Duration, ShouldEqual, 15)
			So(def.Parts[1].Triggers, ShouldResemble, []trigger.ID{trigger.RecastID(7421)})
			So(def.Parts[1].CD, ShouldEqual, 60)
			So(def.TotalDiamonds(), ShouldEqual, 5)
		})

		Convey("Then MCH keeps its gauge order", func() {
			job, err := table.Job("MCH")
			So(err, ShouldBeNil)
			So(job.Gauges[0].Name, ShouldEqual, "Reassemble")
			So(job.Gauges[1].Name, ShouldEqual, "Gauss Round")
		})

		Convey("Then returned definitions are copies", func() {
			a, _ := table.Job("BLM")
			a.Gauges[0].Definition.Parts[0].MaxCharges = 99
			b, _ := table.Job("BLM")
			So(b.Gauges[0].Definition.Parts[0].MaxCharges, ShouldEqual, 3)
		})

		Convey("Then unknown jobs are rejected", func() {
			_, err := table.Job("WAR")
			So(errors.Is(err, jobs.ErrUnknownJob), ShouldBeTrue)
		})
	})
}

func TestLoadOverride(t *testing.T) {
	Convey("Given a jobs file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "jobs.toml")
		So(os.WriteFile(path, []byte(override), 0o600), ShouldBeNil)

		table, err := jobs.Load(path)
		So(err, ShouldBeNil)

		Convey("Then matching jobs are replaced", func() {
			job, err := table.Job("BLM")
			So(err, ShouldBeNil)
			So(job.Name, ShouldEqual, "Black Mage (custom)")
			def := job.Gauges[0].Definition
			So(def.Type, ShouldEqual, model.Bar)
			So(def.BarColor, ShouldEqual, model.Color("#00FF00"))
			So(def.Parts[0].Triggers, ShouldResemble, []trigger.ID{trigger.EffectID(1211), trigger.RecastID(7421)})
		})

		Convey("Then new jobs are added and others kept", func() {
			So(table.IDs(), ShouldResemble, []string{"BLM", "MCH", "NIN", "RDM", "SMN"})
			job, err := table.Job("smn")
			So(err, ShouldBeNil)
			So(len(job.Gauges), ShouldEqual, 0)
		})
	})

	Convey("Given no jobs file", t, func() {
		table, err := jobs.Load("")
		So(err, ShouldBeNil)
		So(len(table.IDs()), ShouldEqual, 4)
	})

	Convey("Given a missing jobs file", t, func() {
		_, err := jobs.Load(filepath.Join(t.TempDir(), "absent.toml"))
		So(err, ShouldNotBeNil)
	})
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"malformed", `[[job]` + "\n"},
		{"bad trigger", "[[job]]\nid = \"X\"\n[[job.gauge]]\nname = \"g\"\ntype = \"bar\"\n[[job.gauge.parts]]\ntriggers = [\"status:1\"]\n"},
		{"bad type", "[[job]]\nid = \"X\"\n[[job.gauge]]\nname = \"g\"\ntype = \"arrow\"\n"},
		{"unknown key", "[[job]]\nid = \"X\"\ncolour = \"red\"\n"},
		{"missing id", "[[job]]\nname = \"X\"\n"},
		{"duplicate job", "[[job]]\nid = \"X\"\n[[job]]\nid = \"x\"\n"},
		{"unnamed gauge", "[[job]]\nid = \"X\"\n[[job.gauge]]\ntype = \"bar\"\n"},
		{"duplicate gauge", "[[job]]\nid = \"X\"\n[[job.gauge]]\nname = \"g\"\n[[job.gauge]]\nname = \"g\"\n"},
	}

	Convey("Given malformed job tables", t, func() {
		for _, tc := range cases {
			Convey("When the table has a "+tc.name, func() {
				_, err := jobs.Parse([]byte(tc.data))

				Convey("Then parsing fails with ErrParse", func() {
					So(errors.Is(err, jobs.ErrParse), ShouldBeTrue)
				})
			})
		}
	})
}
