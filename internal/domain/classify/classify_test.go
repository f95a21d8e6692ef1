package classify_test

import (
	"strings"
	"testing"

	classify "github.com/okian/mayday/internal/domain/classify"
	"github.com/okian/mayday/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassifier_Classify(t *testing.T) {
	Convey("Given a classifier with the default rules", t, func() {
		c := classify.New()

		Convey("When the transcript mentions a fire", func() {
			result := c.Classify("There is a fire in the kitchen!")

			Convey("Then it should classify as FIRE with high severity", func() {
				So(result.Category, ShouldEqual, model.CategoryFire)
				So(result.Severity, ShouldBeGreaterThanOrEqualTo, 7)
				So(result.Severity, ShouldBeLessThanOrEqualTo, model.MaxSeverity)
			})
		})

		Convey("When the transcript contains both fire and help triggers", func() {
			result := c.Classify("Help! The kitchen is on fire and smoke is spreading!")

			Convey("Then fire wins because it is checked first", func() {
				So(result.Category, ShouldEqual, model.CategoryFire)
			})
		})

		Convey("When the transcript signals violence", func() {
			result := c.Classify("Someone has a weapon, I'm in danger")

			Convey("Then it should classify as VIOLENCE", func() {
				So(result.Category, ShouldEqual, model.CategoryViolence)
				So(result.Severity, ShouldEqual, 9)
			})
		})

		Convey("When the transcript signals a medical emergency", func() {
			result := c.Classify("my friend is unconscious and not breathing")

			Convey("Then it should classify as MEDICAL", func() {
				So(result.Category, ShouldEqual, model.CategoryMedical)
				So(result.Severity, ShouldEqual, 7)
			})
		})

		Convey("When the transcript signals an accident", func() {
			result := c.Classify("there was a crash on the highway")

			Convey("Then it should classify as ACCIDENT", func() {
				So(result.Category, ShouldEqual, model.CategoryAccident)
				So(result.Severity, ShouldEqual, 6)
			})
		})

		Convey("When the transcript matches nothing", func() {
			result := c.Classify("everything is fine, just testing the system")

			Convey("Then it should fall back to NORMAL with low severity", func() {
				So(result.Category, ShouldEqual, model.CategoryNormal)
				So(result.Severity, ShouldEqual, 2)
			})
		})

		Convey("When the transcript is empty", func() {
			result := c.Classify("")

			Convey("Then it should still return a valid classification", func() {
				So(result.Category, ShouldEqual, model.CategoryNormal)
				So(result.Severity, ShouldBeGreaterThanOrEqualTo, model.MinSeverity)
			})
		})

		Convey("When trigger terms are uppercased or wrapped in punctuation", func() {
			result := c.Classify("FIRE!!! FIRE!!!")

			Convey("Then matching is case and punctuation insensitive", func() {
				So(result.Category, ShouldEqual, model.CategoryFire)
			})
		})

		Convey("When triggers appear only as inflected forms", func() {
			cases := map[string]model.Category{
				"he attacked me outside my house":     model.CategoryViolence,
				"my hand got burned on the stove":     model.CategoryFire,
				"two cars crashed at the lights":      model.CategoryAccident,
				"she is bleeding and badly hurting":   model.CategoryMedical,
			}

			Convey("Then substring matching still catches them", func() {
				for transcript, want := range cases {
					So(c.Classify(transcript).Category, ShouldEqual, want)
				}
			})
		})

		Convey("When a trigger appears inside an unrelated word", func() {
			result := c.Classify("the firefly display was lovely")

			Convey("Then substring semantics still match it", func() {
				So(result.Category, ShouldEqual, model.CategoryFire)
			})
		})
	})
}

func TestClassifier_Totality(t *testing.T) {
	Convey("Given a classifier and a pile of arbitrary transcripts", t, func() {
		c := classify.New()

		transcripts := []string{
			"",
			" ",
			"\n\t",
			strings.Repeat("a", 10_000),
			"1234567890",
			"ünïcödé smökè", // non-ASCII letters lowercase fine
			"fire medical violence accident",
		}

		Convey("Then every classification is inside the declared sets", func() {
			for _, tr := range transcripts {
				result := c.Classify(tr)
				So(result.Category.Valid(), ShouldBeTrue)
				So(result.Severity, ShouldBeGreaterThanOrEqualTo, model.MinSeverity)
				So(result.Severity, ShouldBeLessThanOrEqualTo, model.MaxSeverity)
			}
		})
	})
}

func TestClassifier_CustomRules(t *testing.T) {
	Convey("Given a classifier with overridden rules", t, func() {
		c := classify.New(
			classify.WithRules([]classify.Rule{
				{Category: model.CategoryMedical, Severity: 10, Triggers: []string{"doctor"}},
			}),
			classify.WithDefault(model.CategoryNormal, 1),
		)

		Convey("When a custom trigger matches", func() {
			result := c.Classify("I need a doctor")

			Convey("Then the custom rule applies", func() {
				So(result.Category, ShouldEqual, model.CategoryMedical)
				So(result.Severity, ShouldEqual, 10)
			})
		})

		Convey("When no custom trigger matches", func() {
			result := c.Classify("there is a fire") // default fire rule was replaced

			Convey("Then the configured default applies", func() {
				So(result.Category, ShouldEqual, model.CategoryNormal)
				So(result.Severity, ShouldEqual, 1)
			})
		})
	})
}
