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

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/repostkit/repost-cli/pkg/bootstrap"
	"github.com/repostkit/repost-cli/pkg/logging"
	"github.com/repostkit/repost-cli/pkg/util"
)

var (
	RunCommands = []*cli.Command{
		{
			Name:      "run",
			Usage:     "Launch the automation entry point inside the prepared environment",
			Action:    runAutomation,
			ArgsUsage: "[working-dir]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "entrypoint",
					Usage: "Script `FILE` to launch instead of the configured entry point",
				},
				&cli.BoolFlag{
					Name:  "use-taskfile",
					Usage: "Delegate to the project's own `run` task",
				},
			},
		},
	}
)

func runAutomation(ctx context.Context, cmd *cli.Command) error {
	dir, proj, _, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if e := cmd.String("entrypoint"); e != "" {
		proj.Project.Entrypoint = e
	}

	if cmd.Bool("use-taskfile") {
		tf, err := bootstrap.ParseTaskfile(dir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", bootstrap.TaskFile, err)
		}
		run, err := bootstrap.NewTask(ctx, tf, dir, bootstrap.TaskRun, true)
		if err != nil {
			return err
		}
		return run()
	}

	venv := bootstrap.NewVenv(dir, proj.Project.VenvDir)
	if !venv.Exists() {
		return fmt.Errorf("no virtual environment at [%s], run [rt setup] first", proj.Project.VenvDir)
	}
	if !util.FileExists(dir, proj.Project.Entrypoint) {
		return fmt.Errorf("entry point [%s] not found in %s", proj.Project.Entrypoint, dir)
	}
	if !util.FileExists(dir, proj.Automation.CookieFile) {
		fmt.Println(util.WarningStyle.Render("Warning: ") + fmt.Sprintf(
			"cookie export [%s] not found, the session will not authenticate", proj.Automation.CookieFile))
	}

	env := venv.Environ(os.Environ())
	if envMap, err := godotenv.Read(filepath.Join(dir, bootstrap.EnvLocalFile)); err == nil {
		for key, value := range envMap {
			env = append(env, key+"="+value)
		}
	} else {
		logging.Debug("no local env file", "file", bootstrap.EnvLocalFile)
	}

	fmt.Printf("Starting [%s]\n", util.Accented(proj.Project.Entrypoint))

	run := exec.CommandContext(ctx, venv.Python(), proj.Project.Entrypoint)
	run.Dir = dir
	run.Env = env
	run.Stdin = os.Stdin
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	return run.Run()
}
