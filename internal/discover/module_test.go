package discover_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/repodigest/repodigest/internal/discover"
	"github.com/repodigest/repodigest/internal/utils"
)

func TestDetectGoModulePath(t *testing.T) {
	directory := t.TempDir()
	goModuleContent := "module example.com/sample\n\ngo 1.24.0\n"
	if writeError := os.WriteFile(filepath.Join(directory, utils.GoModuleFileName), []byte(goModuleContent), 0o600); writeError != nil {
		t.Fatalf("write go.mod: %v", writeError)
	}

	if modulePath := discover.DetectGoModulePath(directory); modulePath != "example.com/sample" {
		t.Fatalf("unexpected module path %q", modulePath)
	}
}

func TestDetectGoModulePathMissingFile(t *testing.T) {
	if modulePath := discover.DetectGoModulePath(t.TempDir()); modulePath != "" {
		t.Fatalf("expected empty path for a missing go.mod, got %q", modulePath)
	}
}

func TestDetectGoModulePathUnparseableFile(t *testing.T) {
	directory := t.TempDir()
	if writeError := os.WriteFile(filepath.Join(directory, utils.GoModuleFileName), []byte("not a module file {{{"), 0o600); writeError != nil {
		t.Fatalf("write go.mod: %v", writeError)
	}

	if modulePath := discover.DetectGoModulePath(directory); modulePath != "" {
		t.Fatalf("expected empty path for an unparseable go.mod, got %q", modulePath)
	}
}
