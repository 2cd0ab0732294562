// Copyright 2025 RepostKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/repostkit/repost-cli/pkg/bootstrap"
	"github.com/repostkit/repost-cli/pkg/config"
	"github.com/repostkit/repost-cli/pkg/engine"
	"github.com/repostkit/repost-cli/pkg/logging"
	"github.com/repostkit/repost-cli/pkg/pyproject"
	"github.com/repostkit/repost-cli/pkg/util"
)

var (
	SetupCommands = []*cli.Command{
		{
			Name:      "setup",
			Usage:     "Prepare the local automation environment",
			Action:    setupEnvironment,
			ArgsUsage: "[working-dir]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "python",
					Usage: "Host Python `INTERPRETER` used to create the virtual environment",
					Value: bootstrap.DefaultPython,
				},
				&cli.StringFlag{
					Name:  "venv-dir",
					Usage: "Virtual environment `DIR`, relative to the working directory",
				},
				&cli.StringFlag{
					Name:  "manifest",
					Usage: "Dependency manifest `FILE` to install",
				},
				&cli.StringFlag{
					Name:  "engine",
					Usage: "Browser `ENGINE` to install (chromium, firefox, webkit)",
				},
				&cli.BoolFlag{
					Name:  "force",
					Usage: "Recreate the virtual environment even if it already exists",
				},
				&cli.BoolFlag{
					Name:  "use-taskfile",
					Usage: "Delegate to the project's own `setup` task instead of the built-in plan",
				},
				silentFlag,
			},
		},
	}
)

// awaitRunner wraps command execution in a spinner; the inner runner still
// decides how output is surfaced.
type awaitRunner struct {
	inner bootstrap.Runner
}

func (r *awaitRunner) Run(ctx context.Context, step bootstrap.Step) error {
	return util.Await(step.Title+"...", ctx, func(ctx context.Context) error {
		return r.inner.Run(ctx, step)
	})
}

func setupEnvironment(ctx context.Context, cmd *cli.Command) error {
	verbose := cmd.Bool("verbose")
	silent := cmd.Bool("silent")

	dir, proj, hadConfig, err := loadProject(cmd)
	if err != nil {
		return err
	}

	if v := cmd.String("venv-dir"); v != "" {
		proj.Project.VenvDir = v
	}
	if m := cmd.String("manifest"); m != "" {
		proj.Project.Manifest = m
	}
	if e := cmd.String("engine"); e != "" {
		proj.Automation.Engine = e
	}
	if err := proj.Validate(); err != nil {
		return err
	}

	// Projects carrying their own recipe get it honored as-is.
	if cmd.Bool("use-taskfile") {
		return setupFromTaskfile(ctx, dir, proj, verbose)
	}

	python := cmd.String("python")
	if !bootstrap.CommandExists(python) {
		return fmt.Errorf("%s not found in PATH, install Python %s or newer", python, pyproject.MinPythonVersion)
	}
	out, err := exec.CommandContext(ctx, python, "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to run %s --version: %w", python, err)
	}
	if err := pyproject.CheckPythonVersion(string(out)); err != nil {
		return err
	}

	opts := setupOptions{
		python: python,
		force:  cmd.Bool("force"),
		silent: silent,
	}
	runner := &awaitRunner{inner: bootstrap.NewExecRunner(verbose)}
	report := func(s bootstrap.Step) {
		fmt.Printf("%s [%s]\n", s.Title, util.Accented(filepath.Base(s.Tool)))
	}
	installEngine := func(ctx context.Context) error {
		return util.Await("Installing browser engine...", ctx, func(_ context.Context) error {
			return engine.Install(proj.Automation.Engine, verbose)
		})
	}
	if err := runSetup(ctx, dir, proj, opts, runner, installEngine, report); err != nil {
		return err
	}

	if util.FileExists(dir, bootstrap.EnvExampleFile) {
		if err := seedDotEnv(ctx, dir, proj, silent); err != nil {
			return err
		}
	}

	if !hadConfig {
		if err := proj.SaveTOMLFile(dir, tomlFilename); err != nil {
			return err
		}
	}
	rememberProject(dir, proj)

	if !util.FileExists(dir, proj.Automation.CookieFile) {
		fmt.Println(util.WarningStyle.Render("Warning: ") + fmt.Sprintf(
			"cookie export [%s] not found, export your session cookies before running", proj.Automation.CookieFile))
	}

	fmt.Printf("\n%s Run [%s] to start [%s].\n",
		util.SuccessStyle.Render("Environment setup complete!"),
		util.Accented("rt run"),
		util.Accented(proj.Project.Entrypoint))
	pauseForKeypress("Press any key to exit...")
	return nil
}

type setupOptions struct {
	python string
	force  bool
	silent bool
}

// runSetup executes the bootstrap plan against dir. The runner, the engine
// installer, and the report callback are injected so the sequence can be
// exercised without spawning real tools.
func runSetup(
	ctx context.Context,
	dir string,
	proj *config.RepostTOML,
	opts setupOptions,
	runner bootstrap.Runner,
	installEngine func(ctx context.Context) error,
	report func(bootstrap.Step),
) error {
	venv := bootstrap.NewVenv(dir, proj.Project.VenvDir)
	reuse := false
	if venv.Exists() {
		switch {
		case opts.force:
		case opts.silent || !interactive():
			reuse = true
		default:
			recreate := false
			if err := huh.NewConfirm().
				Title(fmt.Sprintf("Virtual environment [%s] already exists. Recreate it?", proj.Project.VenvDir)).
				Value(&recreate).
				Inline(true).
				WithTheme(util.Theme).
				Run(); err != nil {
				return err
			}
			reuse = !recreate
		}
		if !reuse {
			if err := os.RemoveAll(venv.Root); err != nil {
				return fmt.Errorf("failed to remove existing virtual environment: %w", err)
			}
		}
	}

	if !util.FileExists(dir, proj.Project.Manifest) {
		return fmt.Errorf("dependency manifest [%s] not found in %s", proj.Project.Manifest, dir)
	}
	if err := pyproject.CheckPlaywrightPin(filepath.Join(dir, proj.Project.Manifest)); err != nil {
		fmt.Println(util.WarningStyle.Render("Warning: ") + err.Error())
	}

	steps := bootstrap.SetupSteps(dir, opts.python, venv, proj.Project.Manifest, proj.Automation.Engine, os.Environ())
	if reuse {
		logging.Debug("reusing existing virtual environment", "dir", venv.Root)
		steps = steps[1:]
	}
	engineStep := steps[len(steps)-1]
	steps = steps[:len(steps)-1]

	if err := bootstrap.RunAll(ctx, runner, steps, report); err != nil {
		return err
	}

	// Some manifests pull in playwright without its CLI shim; fall back to the
	// driver-level installer rather than failing the spawn.
	if _, err := os.Stat(venv.Playwright()); err == nil {
		return bootstrap.RunAll(ctx, runner, []bootstrap.Step{engineStep}, report)
	}
	if report != nil {
		report(engineStep)
	}
	return installEngine(ctx)
}

func setupFromTaskfile(ctx context.Context, dir string, proj *config.RepostTOML, verbose bool) error {
	tf, err := bootstrap.ParseTaskfile(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", bootstrap.TaskFile, err)
	}
	run, err := bootstrap.NewTask(ctx, tf, dir, bootstrap.TaskSetup, verbose)
	if err != nil {
		return err
	}
	if err := util.Await("Running setup task...", ctx, func(_ context.Context) error {
		return run()
	}); err != nil {
		return err
	}

	fmt.Printf("\n%s Run [%s] to start [%s].\n",
		util.SuccessStyle.Render("Environment setup complete!"),
		util.Accented("rt run"),
		util.Accented(proj.Project.Entrypoint))
	pauseForKeypress("Press any key to exit...")
	return nil
}

func seedDotEnv(ctx context.Context, dir string, proj *config.RepostTOML, silent bool) error {
	prompt := func(key, value string) (string, error) {
		if silent || !interactive() {
			return value, nil
		}
		newValue := value
		if err := huh.NewInput().
			Title(key).
			Value(&newValue).
			WithTheme(util.Theme).
			Run(); err != nil {
			return "", err
		}
		return newValue, nil
	}

	return bootstrap.InstantiateDotEnv(ctx, dir, map[string]string{
		"COOKIE_FILE": proj.Automation.CookieFile,
	}, prompt)
}

func rememberProject(dir string, proj *config.RepostTOML) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	cliConf, err := config.LoadOrCreate()
	if err != nil {
		logging.Debug("unable to load CLI config", "error", err)
		return
	}
	cliConf.RememberProject(proj.Project.Name, abs)
	if err := cliConf.PersistIfNeeded(); err != nil {
		logging.Debug("unable to persist CLI config", "error", err)
	}
}
