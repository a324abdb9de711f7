package model_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/devrank/devrank/internal/domain/model"
)

func TestLastActivity(t *testing.T) {
	Convey("Given repo snapshots", t, func() {
		updated := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

		Convey("Without a push timestamp, updated_at wins", func() {
			r := model.RepoScoreData{UpdatedAt: updated}
			So(r.LastActivity(), ShouldEqual, updated)
		})

		Convey("A later push timestamp wins over updated_at", func() {
			pushed := updated.AddDate(0, 0, 7)
			r := model.RepoScoreData{UpdatedAt: updated, PushedAt: &pushed}
			So(r.LastActivity(), ShouldEqual, pushed)
		})

		Convey("An earlier push timestamp is ignored", func() {
			pushed := updated.AddDate(0, 0, -7)
			r := model.RepoScoreData{UpdatedAt: updated, PushedAt: &pushed}
			So(r.LastActivity(), ShouldEqual, updated)
		})
	})
}

func TestLanguageDistributionCodec(t *testing.T) {
	Convey("Given language distributions", t, func() {
		Convey("A distribution round-trips through its encoding", func() {
			d := model.LanguageDistribution{"Go": 3, "Python": 1}
			So(model.DecodeLanguageDistribution(d.Encode()), ShouldResemble, d)
		})

		Convey("Empty and nil distributions encode to {}", func() {
			So(model.LanguageDistribution{}.Encode(), ShouldEqual, "{}")
			So(model.LanguageDistribution(nil).Encode(), ShouldEqual, "{}")
		})

		Convey("Malformed input decodes to an empty distribution", func() {
			So(model.DecodeLanguageDistribution("not json"), ShouldResemble, model.LanguageDistribution{})
			So(model.DecodeLanguageDistribution(""), ShouldResemble, model.LanguageDistribution{})
			So(model.DecodeLanguageDistribution("null"), ShouldResemble, model.LanguageDistribution{})
		})
	})
}
