package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, closeFn, err := New("info", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("connected to database")
	logger.Debug("hidden")
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"connected to database"`) {
		t.Errorf("missing JSON entry: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New("loud", ""); err == nil {
		t.Error("expected error")
	}
}
