package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestLocateResolver(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join("dist", "index.js")
	if err := os.MkdirAll(filepath.Join(dir, "dist"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, script), []byte("// tool"), 0644); err != nil {
		t.Fatal(err)
	}

	install, err := LocateResolver("sh", dir, script)
	if err != nil {
		t.Fatalf("LocateResolver failed: %v", err)
	}
	if install.Dir != dir {
		t.Errorf("Expected dir %s, got %s", dir, install.Dir)
	}
	args := install.Args()
	if len(args) != 1 || args[0] != filepath.Join(dir, script) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestLocateResolverMissingPieces(t *testing.T) {
	dir := t.TempDir()

	if _, err := LocateResolver("definitely-not-a-real-binary-xyz", dir, ""); err == nil {
		t.Error("Expected error for missing runtime")
	}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	if _, err := LocateResolver("sh", filepath.Join(dir, "missing"), ""); err == nil {
		t.Error("Expected error for missing directory")
	}
	if _, err := LocateResolver("sh", dir, "dist/index.js"); err == nil {
		t.Error("Expected error for missing script")
	}

	install, err := LocateResolver("sh", dir, "")
	if err != nil {
		t.Fatalf("LocateResolver failed: %v", err)
	}
	if len(install.Args()) != 0 {
		t.Errorf("Expected no leading args, got %v", install.Args())
	}
}
