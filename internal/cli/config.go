package cli

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/coleslaw481/patrix/pkg/errors"
)

// fileConfig mirrors the generate flags for TOML config files. Pointer
// fields distinguish absent keys from explicit zero values.
type fileConfig struct {
	Duration *int   `toml:"duration"`
	Updators *int   `toml:"updators"`
	Prefill  *bool  `toml:"prefill"`
	Glow     *int   `toml:"glow"`
	Frames   *int   `toml:"frames"`
	ColSep   *int   `toml:"colsep"`
	RowSep   *int   `toml:"rowsep"`
	Width    *int   `toml:"width"`
	Height   *int   `toml:"height"`
	Seed     *int64 `toml:"seed"`
}

// applyConfigFile loads a TOML config file and copies each present value
// into opts, unless the corresponding flag was set explicitly on the command
// line. Precedence: flags > config file > defaults.
func applyConfigFile(path string, flags *pflag.FlagSet, opts *generateOpts) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse config file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}

	apply := func(flag string, fn func()) {
		if !flags.Changed(flag) {
			fn()
		}
	}
	if fc.Duration != nil {
		apply("duration", func() { opts.duration = *fc.Duration })
	}
	if fc.Updators != nil {
		apply("updators", func() { opts.updators = *fc.Updators })
	}
	if fc.Prefill != nil {
		apply("prefill", func() { opts.prefill = *fc.Prefill })
	}
	if fc.Glow != nil {
		apply("glow", func() { opts.glow = *fc.Glow })
	}
	if fc.Frames != nil {
		apply("frames", func() { opts.frames = *fc.Frames })
	}
	if fc.ColSep != nil {
		apply("colsep", func() { opts.colsep = *fc.ColSep })
	}
	if fc.RowSep != nil {
		apply("rowsep", func() { opts.rowsep = *fc.RowSep })
	}
	if fc.Width != nil {
		apply("width", func() { opts.width = *fc.Width })
	}
	if fc.Height != nil {
		apply("height", func() { opts.height = *fc.Height })
	}
	if fc.Seed != nil {
		apply("seed", func() { opts.seed = *fc.Seed })
	}
	return nil
}
