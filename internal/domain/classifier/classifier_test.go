package classifier_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/devrank/devrank/internal/domain/classifier"
	"github.com/devrank/devrank/internal/domain/model"
)

func strPtr(s string) *string { return &s }

func repoNamed(name string) model.RepoScoreData {
	return model.RepoScoreData{
		RepoID:    "r-" + name,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestClassifier_Detect(t *testing.T) {
	Convey("Given the default classifier", t, func() {
		det := classifier.New()

		Convey("A repo with an AI token in the name classifies true", func() {
			So(det.Detect(repoNamed("my-awesome-ai-project")), ShouldBeTrue)
		})

		Convey("Hyphen and underscore spellings match the same token", func() {
			So(det.Detect(repoNamed("machine-learning-notes")), ShouldBeTrue)
			So(det.Detect(repoNamed("machine_learning_notes")), ShouldBeTrue)
		})

		Convey("A plain repo with nil description and CSS classifies false", func() {
			repo := repoNamed("todo-app")
			repo.Language = strPtr("CSS")
			So(det.Detect(repo), ShouldBeFalse)
		})

		Convey("A description match alone is enough", func() {
			repo := repoNamed("experiments")
			repo.Description = strPtr("Deep learning experiments with public datasets")
			So(det.Detect(repo), ShouldBeTrue)
		})

		Convey("A language match alone is not enough", func() {
			repo := repoNamed("scripts")
			repo.Language = strPtr("Python")
			So(det.Detect(repo), ShouldBeFalse)
		})

		Convey("Language plus description clears the threshold", func() {
			repo := repoNamed("experiments")
			repo.Language = strPtr("Jupyter Notebook")
			repo.Description = strPtr("computer vision playground")
			So(det.Detect(repo), ShouldBeTrue)
		})

		Convey("Nil description and language never panic", func() {
			So(func() { det.Detect(repoNamed("plain")) }, ShouldNotPanic)
		})

		Convey("Detection is deterministic for identical input", func() {
			repo := repoNamed("pytorch-utils")
			first := det.Detect(repo)
			for i := 0; i < 10; i++ {
				So(det.Detect(repo), ShouldEqual, first)
			}
		})
	})
}

func TestClassifier_Batch(t *testing.T) {
	Convey("Given a mixed repo collection", t, func() {
		det := classifier.New()
		repos := []model.RepoScoreData{
			repoNamed("llm-server"),
			repoNamed("todo-app"),
			repoNamed("neural-network-zoo"),
		}

		Convey("CountAIProjects counts matching repos", func() {
			So(det.CountAIProjects(repos), ShouldEqual, 2)
		})

		Convey("FilterAIProjects returns the matching subset", func() {
			filtered := det.FilterAIProjects(repos)
			So(filtered, ShouldHaveLength, 2)
			So(filtered[0].Name, ShouldEqual, "llm-server")
			So(filtered[1].Name, ShouldEqual, "neural-network-zoo")
		})

		Convey("An empty collection counts zero", func() {
			So(det.CountAIProjects(nil), ShouldEqual, 0)
			So(det.FilterAIProjects(nil), ShouldBeEmpty)
		})
	})
}
