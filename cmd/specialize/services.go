package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/samber/do"

	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/specialize"
)

// options are the command-line settings shared by every command.
type options struct {
	configPath   string
	capabilities []string
	noHoist      bool
	maxDepth     int
	verbose      bool
	source       string // file being processed; used to find a config file
}

// externalTables are the tables loaded from --capabilities files.
type externalTables []*capability.Table

// newContainer wires the services a command needs.
func newContainer(opts options, stderr io.Writer) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, opts)

	do.Provide(injector, func(i *do.Injector) (*log.Logger, error) {
		if !opts.verbose {
			return log.New(io.Discard, "", 0), nil
		}
		return log.New(stderr, "specialize: ", 0), nil
	})

	do.Provide(injector, func(i *do.Injector) (*config.Config, error) {
		return loadConfig(do.MustInvoke[options](i))
	})

	do.Provide(injector, func(i *do.Injector) (externalTables, error) {
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		var tables externalTables
		paths := append(append([]string{}, cfg.Capabilities...), do.MustInvoke[options](i).capabilities...)
		for _, path := range paths {
			loaded, err := capability.LoadFile(path)
			if err != nil {
				return nil, err
			}
			tables = append(tables, loaded...)
		}
		return tables, nil
	})

	do.Provide(injector, func(i *do.Injector) (*specialize.CompilationContext, error) {
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		tables, err := do.Invoke[externalTables](i)
		if err != nil {
			return nil, err
		}
		ctx := specialize.NewContext(cfg, nil, do.MustInvoke[*log.Logger](i))
		for _, t := range tables {
			ctx.RegisterTable(t.Name, t.Brand, t.Methods).Contract = t.Contract
		}
		return ctx, nil
	})

	do.Provide(injector, func(i *do.Injector) (*diagnostics.Printer, error) {
		if f, ok := stderr.(*os.File); ok {
			return diagnostics.NewPrinter(f), nil
		}
		return diagnostics.NewPlainPrinter(stderr), nil
	})

	return injector
}

// loadConfig reads --config, or the nearest specialize.yaml / .toml above
// the source file, then applies environment and flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	path := opts.configPath
	if path == "" && opts.source != "" {
		found, err := config.FindConfig(filepath.Dir(opts.source))
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if opts.noHoist {
		cfg.Hoist = false
	}
	if opts.maxDepth > 0 {
		cfg.MaxDepth = opts.maxDepth
	} else if opts.maxDepth < 0 {
		return nil, fmt.Errorf("--max-depth must not be negative, got %d", opts.maxDepth)
	}
	return cfg, nil
}
