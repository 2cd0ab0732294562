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
	"os/exec"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/repostkit/repost-cli/pkg/bootstrap"
	"github.com/repostkit/repost-cli/pkg/cookies"
	"github.com/repostkit/repost-cli/pkg/engine"
	"github.com/repostkit/repost-cli/pkg/pyproject"
	"github.com/repostkit/repost-cli/pkg/util"
)

var (
	DoctorCommands = []*cli.Command{
		{
			Name:      "doctor",
			Usage:     "Diagnose the local automation environment",
			Action:    runDoctor,
			ArgsUsage: "[working-dir]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "python",
					Usage: "Host Python `INTERPRETER` to check",
					Value: bootstrap.DefaultPython,
				},
				&cli.BoolFlag{
					Name:  "smoke",
					Usage: "Also launch the browser engine headless to prove it starts",
				},
			},
		},
	}
)

type envCheck struct {
	name string
	fn   func(ctx context.Context) error
}

func runDoctor(ctx context.Context, cmd *cli.Command) error {
	verbose := cmd.Bool("verbose")
	python := cmd.String("python")

	dir, proj, _, err := loadProject(cmd)
	if err != nil {
		return err
	}
	venv := bootstrap.NewVenv(dir, proj.Project.VenvDir)

	checks := []envCheck{
		{"python interpreter", func(ctx context.Context) error {
			if !bootstrap.CommandExists(python) {
				return fmt.Errorf("%s not found in PATH", python)
			}
			out, err := exec.CommandContext(ctx, python, "--version").CombinedOutput()
			if err != nil {
				return err
			}
			return pyproject.CheckPythonVersion(string(out))
		}},
		{"package manager", func(ctx context.Context) error {
			manager, err := pyproject.DetectManager(dir)
			if err != nil {
				return err
			}
			if manager != pyproject.ManagerPip && manager != pyproject.ManagerUnknown {
				return fmt.Errorf("%s project detected, only pip is driven by setup", manager)
			}
			return nil
		}},
		{"virtual environment", func(ctx context.Context) error {
			if !venv.Exists() {
				return fmt.Errorf("not initialized at [%s], run setup first", proj.Project.VenvDir)
			}
			return nil
		}},
		{"dependency manifest", func(ctx context.Context) error {
			if !util.FileExists(dir, proj.Project.Manifest) {
				return fmt.Errorf("[%s] not found", proj.Project.Manifest)
			}
			return pyproject.CheckPlaywrightPin(filepath.Join(dir, proj.Project.Manifest))
		}},
		{"cookie export", func(ctx context.Context) error {
			parsed, err := cookies.ParseFile(filepath.Join(dir, proj.Automation.CookieFile))
			if err != nil {
				return err
			}
			return cookies.ValidateAuth(parsed)
		}},
	}
	if cmd.Bool("smoke") {
		checks = append(checks, envCheck{"browser engine", func(ctx context.Context) error {
			return engine.Verify(proj.Automation.Engine, verbose)
		}})
	}

	results := make([]error, len(checks))
	group, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		group.Go(func() error {
			results[i] = check.fn(gctx)
			return nil
		})
	}
	_ = group.Wait()

	failed := 0
	for i, check := range checks {
		if results[i] != nil {
			failed++
			fmt.Printf("%s %s: %s\n", util.ErrorStyle.Render("✗"), check.name, results[i])
		} else {
			fmt.Printf("%s %s\n", util.SuccessStyle.Render("✓"), check.name)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	fmt.Println(util.SuccessStyle.Render("Environment is healthy."))
	return nil
}
