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
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	repostcli "github.com/repostkit/repost-cli"
	"github.com/repostkit/repost-cli/pkg/logging"
	"github.com/repostkit/repost-cli/pkg/util"
)

func main() {
	app := &cli.Command{
		Name:                   "rt",
		Usage:                  "CLI for the repost automation toolkit",
		Description:            "Prepares and drives the local environment of a repost automation project: the virtual environment, its dependencies, the headless browser engine, and the session prerequisites.",
		Version:                repostcli.Version,
		EnableShellCompletion:  true,
		Suggest:                true,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags,
		Commands: []*cli.Command{
			{
				Name:   "docs",
				Usage:  "Open the documentation in your browser",
				Action: openDocs,
			},
		},
		Before: initLogger,
	}

	app.Commands = append(app.Commands, SetupCommands...)
	app.Commands = append(app.Commands, RunCommands...)
	app.Commands = append(app.Commands, ProjectCommands...)
	app.Commands = append(app.Commands, CookiesCommands...)
	app.Commands = append(app.Commands, DoctorCommands...)

	// Register cleanup hook for SIGINT, SIGTERM, SIGQUIT
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := "info"
	if cmd.Bool("verbose") {
		level = "debug"
	}
	logging.Init(level)

	return nil, nil
}

func openDocs(ctx context.Context, cmd *cli.Command) error {
	return util.OpenDocs()
}
