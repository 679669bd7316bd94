// Command aidlc is the CLI front end for the Loader/Compiler (§6
// "External interfaces"). It is an external collaborator, not part of the
// core library: info/compile/batch-compile subcommands wrap Loader.Resolve
// and Compiler.Compile and print their JSON-shaped results. Grounded on
// cmd/lci/main.go's urfave/cli/v2 app structure (global flags via
// Before, subcommands with their own Flags/Action).
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/binderir/aidlc/internal/compiler"
	"github.com/binderir/aidlc/internal/config"
	"github.com/binderir/aidlc/internal/debug"
	"github.com/binderir/aidlc/internal/errs"
	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

func main() {
	app := &cli.App{
		Name:  "aidlc",
		Usage: "AIDL/Binder IR compiler and parcel decoder toolkit",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "include",
				Aliases: []string{"I"},
				Usage:   "Add a source-root directory to the search path (repeatable)",
			},
			&cli.IntFlag{
				Name:  "android-version",
				Usage: "Target Android API level (overrides config)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Project root to load .aidlc.kdl from",
				Value: ".",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable trace logging to stderr",
			},
		},
		Commands: []*cli.Command{
			infoCommand(),
			compileCommand(),
			batchCompileCommand(),
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				debug.EnableDebug = "true"
			}
			if debug.Enabled() {
				debug.SetOutput(os.Stderr)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "aidlc: %v\n", err)
		os.Exit(1)
	}
}

// newLoader builds a Loader from the resolved config plus CLI overrides
// (SPEC_FULL.md §A.1): config file search-path and android-version, with
// -I and --android-version taking precedence.
func newLoader(c *cli.Context) (*loader.Loader, error) {
	root := c.String("config")
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	searchPath := cfg.SearchPath
	if extra := c.StringSlice("include"); len(extra) > 0 {
		searchPath = append(append([]string(nil), extra...), searchPath...)
	}
	if len(searchPath) == 0 {
		searchPath = []string{"."}
	}
	if cfg.PrecompiledDir != "" {
		searchPath = append(searchPath, cfg.PrecompiledDir)
	}

	androidVersion := cfg.AndroidVersion
	if c.IsSet("android-version") {
		androidVersion = c.Int("android-version")
	}

	return loader.New(searchPath, androidVersion), nil
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Resolve and print a unit's compiled definition as JSON",
		ArgsUsage: "<qname>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "schema",
				Usage: "Print the BinderDef/ParcelableDef JSON schema instead of resolving a unit",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("schema") {
				return printSchema()
			}
			if c.NArg() < 1 {
				return errors.New("usage: aidlc info <qname>")
			}
			l, err := newLoader(c)
			if err != nil {
				return err
			}
			comp := compiler.New(l)
			u, err := comp.Compile(c.Args().First())
			if err != nil {
				return err
			}
			return printUnit(u)
		},
	}
}

func printSchema() error {
	schemas := map[string]any{
		"binder":     model.BinderDefSchema(),
		"parcelable": model.ParcelableDefSchema(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(schemas)
}

func printUnit(u *loader.Unit) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	switch {
	case u.Binder != nil:
		return enc.Encode(u.Binder)
	case u.Parcelable != nil:
		return enc.Encode(u.Parcelable)
	default:
		return fmt.Errorf("%s has no compiled body", u.QName)
	}
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compile a single qname and write its JSON unit to a directory",
		ArgsUsage: "<qname>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output directory",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing output file",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errors.New("usage: aidlc compile <qname> -o <dir>")
			}
			l, err := newLoader(c)
			if err != nil {
				return err
			}
			comp := compiler.New(l)
			u, err := comp.Compile(c.Args().First())
			if err != nil {
				return err
			}
			return writeUnit(u, c.String("output"), c.Bool("force"))
		},
	}
}

func batchCompileCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch-compile",
		Usage: "Compile every AIDL/Java unit found under the search path",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output directory",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "recover",
				Aliases: []string{"r"},
				Usage:   "Skip units that fail to translate instead of aborting the batch",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite existing output files",
			},
		},
		Action: func(c *cli.Context) error {
			l, err := newLoader(c)
			if err != nil {
				return err
			}
			comp := compiler.New(l)
			recoverFailures := c.Bool("recover")
			force := c.Bool("force")
			out := c.String("output")

			var failures int
			for _, root := range l.SearchPath() {
				err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
					if walkErr != nil || info.IsDir() {
						return nil
					}
					qname := qnameFromPath(root, path)
					if qname == "" {
						return nil
					}
					u, err := comp.Compile(qname)
					if err != nil {
						var te *errs.TranslationError
						if errors.As(err, &te) && te.Recoverable && recoverFailures {
							fmt.Fprintf(os.Stderr, "skip %s: %v\n", qname, err)
							failures++
							return nil
						}
						return err
					}
					return writeUnit(u, out, force)
				})
				if err != nil {
					return err
				}
			}
			if failures > 0 {
				return fmt.Errorf("batch-compile finished with %d recoverable failure(s)", failures)
			}
			return nil
		},
	}
}

// qnameFromPath derives a dotted QName from a source-root-relative path,
// recognizing only the two parseable extensions (§6 "File
// recognition"); JSON units are already-compiled and not re-walked.
func qnameFromPath(root, path string) string {
	ext := filepath.Ext(path)
	if ext != ".aidl" && ext != ".java" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	rel = rel[:len(rel)-len(ext)]
	dir, base := filepath.Split(rel)
	dir = filepath.Clean(dir)
	if dir == "." || dir == "" {
		return base
	}
	pkg := strings.ReplaceAll(filepath.ToSlash(dir), "/", ".")
	return pkg + "." + base
}

func writeUnit(u *loader.Unit, outDir string, force bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(outDir, u.QName+".json")
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -f to overwrite)", path)
		}
	}

	var payload any
	switch {
	case u.Binder != nil:
		payload = u.Binder
	case u.Parcelable != nil:
		payload = u.Parcelable
	default:
		return fmt.Errorf("%s has no compiled body", u.QName)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
