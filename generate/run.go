package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"themec/config"
	"themec/css"
	"themec/state"
)

// Run implements the generate subcommand: it expands every source stylesheet
// against the configured themes and writes final CSS next to the requested
// destination.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("generate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}

	dst, err := resolveDestination(cmd.Args().Get(1), env)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if mode := cmd.String("mode"); len(mode) > 0 {
		m, err := config.ParseOutputMode(mode)
		if err != nil {
			log.Warn("Unknown output mode requested, keeping configured one", zap.Error(err))
		} else {
			env.Cfg.Generator.Mode = m
		}
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	log.Info("Processing starting",
		zap.String("source", src), zap.String("destination", dst),
		zap.Stringer("mode", env.Cfg.Generator.Mode), zap.Int("themes", env.Store.Len()))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// resolveDestination picks the output directory: the explicit argument wins,
// then the configured generator destination, then the working directory.
func resolveDestination(arg string, env *state.LocalEnv) (string, error) {
	dst := arg
	if len(dst) == 0 {
		dst = env.Cfg.Generator.Destination
	}
	if len(dst) == 0 {
		var err error
		if dst, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	return filepath.Abs(dst)
}

// process handles generation independently of CLI framework. It determines
// the input type (directory or single file) and processes accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsDir() {
		return processDir(ctx, src, dst, log)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
	return processSheet(ctx, src, filepath.Base(src), dst, log)
}

// processDir walks directory tree finding stylesheets and processes them.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".css") {
			log.Debug("Skipping file, not recognized as stylesheet", zap.String("file", path))
			return nil
		}

		count++

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processSheet(ctx, path, src, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	return err
}

// processSheet expands a single stylesheet. "src" is the source path relative
// to the original input (base file name when a file was specified directly),
// it drives output naming. "dst" is the destination directory.
func processSheet(ctx context.Context, path, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Generation starting", zap.String("from", src))
	defer func(start time.Time) {
		log.Info("Generation completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
	}(time.Now())

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet (%s): %w", path, err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData(filepath.Join("input", filepath.Base(path)), data)
	}

	sheet := css.NewParser(log).Parse(data, src)
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet problem", zap.String("source", src), zap.String("problem", w))
	}

	expanded, err := New(env.Store, log).Expand(sheet)
	if err != nil {
		return fmt.Errorf("unable to expand stylesheet (%s): %w", src, err)
	}

	outputName = buildOutputPath(src, dst, env)

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	out, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer out.Close()

	switch env.Cfg.Generator.Mode {
	case config.OutputModeCompact:
		_, err = expanded.WriteCompactTo(out)
	default:
		_, err = expanded.WriteTo(out)
	}
	if err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.Store(filepath.Join("output", filepath.Base(outputName)), outputName)
	}
	return nil
}
