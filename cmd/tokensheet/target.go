package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokensheet/internal/diagfmt"
	"tokensheet/internal/driver"
	"tokensheet/internal/osver"
)

// target bundles everything a query verb needs: the built registry, the
// timeline point to query at and the language, resolved from flags and the
// tokensheet.toml manifest.
type target struct {
	res   *driver.BuildResult
	point osver.Point
	lang  string
}

// resolveTarget builds the registry for the sheet named by sheetOverride,
// the --sheet flag or the manifest, in that order, and resolves the query
// point from --model/--os with manifest defaults behind them.
func resolveTarget(cmd *cobra.Command, sheetOverride string) (*target, error) {
	flags := cmd.Root().PersistentFlags()

	sheetPath := sheetOverride
	if sheetPath == "" {
		sheetPath, _ = flags.GetString("sheet")
	}
	model, _ := flags.GetString("model")
	osVersion, _ := flags.GetString("os")
	lang, _ := flags.GetString("lang")

	if sheetPath == "" || model == "" || lang == "" {
		manifest, ok, err := loadManifest("")
		if err != nil {
			return nil, err
		}
		if ok {
			if sheetPath == "" {
				sheetPath = manifest.sheetPath()
			}
			if model == "" {
				model = manifest.Config.Defaults.Model
				if osVersion == "" {
					osVersion = manifest.Config.Defaults.OS
				}
			}
			if lang == "" {
				lang = manifest.Config.Defaults.Lang
			}
		}
	}
	if sheetPath == "" {
		return nil, errors.New(noManifestMessage)
	}
	if model == "" {
		model = string(osver.Latest)
	}
	if lang == "" {
		lang = "en"
	}

	point, err := osver.ParsePoint(model, osVersion)
	if err != nil {
		return nil, err
	}

	maxDiagnostics, _ := flags.GetInt("max-diagnostics")
	noCache, _ := flags.GetBool("no-cache")
	res, err := driver.BuildRegistry(sheetPath, driver.BuildOptions{
		MaxDiagnostics: maxDiagnostics,
		NoCache:        noCache,
	})
	if err != nil {
		return nil, err
	}

	reportBuild(cmd, res)
	return &target{res: res, point: point, lang: lang}, nil
}

// reportBuild renders build diagnostics and timings to stderr; query output
// stays on stdout.
func reportBuild(cmd *cobra.Command, res *driver.BuildResult) {
	flags := cmd.Root().PersistentFlags()
	quiet, _ := flags.GetBool("quiet")
	timings, _ := flags.GetBool("timings")

	if !quiet && res.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, res.Bag, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}
	if timings {
		fmt.Fprint(os.Stderr, res.Timer.Summary())
	}
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}
