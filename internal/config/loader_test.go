package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		cfg, err := Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Defaults apply", func() {
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.DatabaseDSN, ShouldBeEmpty)
			So(cfg.DefaultVersion, ShouldEqual, "V1")
			So(cfg.DefaultPageSize, ShouldEqual, 20)
			So(cfg.MaxPageSize, ShouldEqual, 100)
			So(cfg.BatchWorkers, ShouldEqual, 4)
			So(cfg.TopLanguages, ShouldEqual, 3)
		})
	})
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DEVRANK_ADDR", ":9090")
	t.Setenv("DEVRANK_LOG_LEVEL", "debug")
	t.Setenv("DEVRANK_MAX_PAGE_SIZE", "50")

	Convey("Environment variables override defaults", t, func() {
		cfg, err := Load(context.Background())
		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":9090")
		So(cfg.LogLevel, ShouldEqual, "debug")
		So(cfg.MaxPageSize, ShouldEqual, 50)
		// Untouched keys keep their defaults.
		So(cfg.DefaultVersion, ShouldEqual, "V1")
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("addr: \":7070\"\nbatch_workers: 8\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEVRANK_CONFIG", path)

	Convey("A YAML file layers over defaults", t, func() {
		cfg, err := Load(context.Background())
		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":7070")
		So(cfg.BatchWorkers, ShouldEqual, 8)
	})
}

func TestLoadFilePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEVRANK_CONFIG", path)
	t.Setenv("DEVRANK_ADDR", ":9090")

	Convey("Environment variables win over the file", t, func() {
		cfg, err := Load(context.Background())
		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":9090")
	})
}

func TestLoadErrors(t *testing.T) {
	Convey("A missing config file fails with ErrLoadConfig", t, func() {
		t.Setenv("DEVRANK_CONFIG", "/nonexistent/config.yaml")
		_, err := Load(context.Background())
		So(errors.Is(err, ErrLoadConfig), ShouldBeTrue)
	})

	Convey("An empty addr fails validation", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte("addr: \"\"\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("DEVRANK_CONFIG", path)

		_, err := Load(context.Background())
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})
}
