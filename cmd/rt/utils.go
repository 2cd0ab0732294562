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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/repostkit/repost-cli/pkg/config"
)

var (
	tomlFilename string = config.RepostTOMLFile

	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Config `TOML` to use in the working directory",
			Value:       config.RepostTOMLFile,
			Destination: &tomlFilename,
			Required:    false,
		},
		&cli.BoolFlag{
			Name:     "verbose",
			Required: false,
		},
	}

	silentFlag = &cli.BoolFlag{
		Name:     "silent",
		Usage:    "If set, will not prompt for confirmation",
		Required: false,
		Value:    false,
	}
)

// loadProject resolves the working directory from the first positional
// argument and loads its project file. A missing project file yields the
// stock configuration, named after the directory.
func loadProject(cmd *cli.Command) (string, *config.RepostTOML, bool, error) {
	dir := "."
	if cmd.NArg() > 0 {
		dir = cmd.Args().First()
	}
	proj, exists, err := loadProjectDir(dir)
	return dir, proj, exists, err
}

func loadProjectDir(dir string) (*config.RepostTOML, bool, error) {
	proj, exists, err := config.LoadTOMLFile(dir, tomlFilename)
	if err != nil {
		if !exists && errors.Is(err, fs.ErrNotExist) {
			abs, absErr := filepath.Abs(dir)
			if absErr != nil {
				return nil, false, absErr
			}
			return config.NewRepostTOML(filepath.Base(abs)), false, nil
		}
		return nil, exists, err
	}
	return proj, true, nil
}

// pauseForKeypress blocks until a key is pressed, but only when attached to
// a terminal so that scripted runs exit cleanly.
func pauseForKeypress(prompt string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stdin.Fd()) {
		return
	}
	fmt.Print(prompt)
	_, _ = os.Stdin.Read(make([]byte, 1))
	fmt.Println()
}

// interactive reports whether prompting the user is possible at all.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd())
}
