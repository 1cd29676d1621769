package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coleslaw481/patrix/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patrix.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyConfigFile(t *testing.T) {
	path := writeConfig(t, `
duration = 200
frames = 50
prefill = true
seed = 7
`)

	cmd := newGenerateCmd()
	opts := generateOpts{
		duration: defaultDuration,
		frames:   defaultFrames,
		width:    defaultWidth,
		seed:     defaultSeed,
	}

	if err := applyConfigFile(path, cmd.Flags(), &opts); err != nil {
		t.Fatalf("applyConfigFile() error = %v", err)
	}

	if opts.duration != 200 {
		t.Errorf("duration = %d, want 200", opts.duration)
	}
	if opts.frames != 50 {
		t.Errorf("frames = %d, want 50", opts.frames)
	}
	if !opts.prefill {
		t.Error("prefill should be true")
	}
	if opts.seed != 7 {
		t.Errorf("seed = %d, want 7", opts.seed)
	}

	// Keys absent from the file keep their defaults.
	if opts.width != defaultWidth {
		t.Errorf("width = %d, want default %d", opts.width, defaultWidth)
	}
}

func TestApplyConfigFileFlagsWin(t *testing.T) {
	path := writeConfig(t, `frames = 50`)

	cmd := newGenerateCmd()
	if err := cmd.Flags().Set("frames", "9"); err != nil {
		t.Fatal(err)
	}
	opts := generateOpts{frames: 9}

	if err := applyConfigFile(path, cmd.Flags(), &opts); err != nil {
		t.Fatalf("applyConfigFile() error = %v", err)
	}
	if opts.frames != 9 {
		t.Errorf("frames = %d, want 9 (explicit flag beats config file)", opts.frames)
	}
}

func TestApplyConfigFileUnknownKey(t *testing.T) {
	path := writeConfig(t, `dropers = 10`)

	cmd := newGenerateCmd()
	opts := generateOpts{}
	err := applyConfigFile(path, cmd.Flags(), &opts)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("applyConfigFile(unknown key) error = %v, want INVALID_CONFIG", err)
	}
}

func TestApplyConfigFileBadTOML(t *testing.T) {
	path := writeConfig(t, `frames = [`)

	cmd := newGenerateCmd()
	opts := generateOpts{}
	err := applyConfigFile(path, cmd.Flags(), &opts)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("applyConfigFile(bad toml) error = %v, want INVALID_CONFIG", err)
	}
}

func TestApplyConfigFileMissing(t *testing.T) {
	cmd := newGenerateCmd()
	opts := generateOpts{}
	err := applyConfigFile(filepath.Join(t.TempDir(), "nope.toml"), cmd.Flags(), &opts)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("applyConfigFile(missing) error = %v, want INVALID_CONFIG", err)
	}
}
