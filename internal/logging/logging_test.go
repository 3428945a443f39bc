package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/nhle/todo-manager/internal/model"
)

func TestConfigureWritesToFile(t *testing.T) {
	logger, hook := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	closer, err := Configure(logger, model.LogConfig{
		Level:      "debug",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	logger.WithField("task", "abc").Debug("task created")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "task created" || entry.Data["task"] != "abc" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "task created") || !strings.Contains(string(data), "task=abc") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestConfigureWithoutFileDiscards(t *testing.T) {
	logger, _ := test.NewNullLogger()

	closer, err := Configure(logger, model.LogConfig{Level: "warn"})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer closer.Close()

	if logger.Out != io.Discard {
		t.Error("expected output to be discarded")
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	logger, _ := test.NewNullLogger()
	if _, err := Configure(logger, model.LogConfig{Level: "chatty"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
