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
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/repostkit/repost-cli/pkg/cookies"
	"github.com/repostkit/repost-cli/pkg/util"
)

var (
	CookiesCommands = []*cli.Command{
		{
			Name:  "cookies",
			Usage: "Inspect the session cookie export",
			Commands: []*cli.Command{
				{
					Name:      "check",
					Usage:     "Validate the cookie export used for authentication",
					Action:    checkCookies,
					ArgsUsage: "[working-dir]",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "file",
							Usage: "Cookie export `FILE` to check instead of the configured one",
						},
					},
				},
				{
					Name:      "import",
					Usage:     "Validate a cookie export and copy it into the project",
					UsageText: "rt cookies import SRC_FILE [working-dir]",
					Action:    importCookies,
					ArgsUsage: "SRC_FILE [working-dir]",
				},
			},
		},
	}
)

func checkCookies(ctx context.Context, cmd *cli.Command) error {
	dir, proj, _, err := loadProject(cmd)
	if err != nil {
		return err
	}

	file := cmd.String("file")
	if file == "" {
		file = proj.Automation.CookieFile
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, file)
	}

	parsed, err := cookies.ParseFile(path)
	if err != nil {
		return err
	}

	domains := map[string]struct{}{}
	for _, c := range parsed {
		domains[c.Domain] = struct{}{}
	}
	fmt.Printf("Parsed %d cookies across %d domains from [%s]\n",
		len(parsed), len(domains), util.Accented(file))

	if err := cookies.ValidateAuth(parsed); err != nil {
		return err
	}
	fmt.Println(util.SuccessStyle.Render("Cookie export is ready."))
	return nil
}

func importCookies(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("cookie export file to import is required")
	}
	src := cmd.Args().First()

	dir := "."
	if cmd.NArg() > 1 {
		dir = cmd.Args().Get(1)
	}
	proj, _, err := loadProjectDir(dir)
	if err != nil {
		return err
	}

	count, err := importCookieExport(src, filepath.Join(dir, proj.Automation.CookieFile))
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d cookies into [%s]\n", count, util.Accented(proj.Automation.CookieFile))
	return nil
}

// importCookieExport copies src to dest after proving it parses and carries
// the auth cookies; a broken export never replaces a working one.
func importCookieExport(src, dest string) (int, error) {
	parsed, err := cookies.ParseFile(src)
	if err != nil {
		return 0, err
	}
	if err := cookies.ValidateAuth(parsed); err != nil {
		return 0, err
	}
	if err := util.CopyFile(src, dest); err != nil {
		return 0, err
	}
	return len(parsed), nil
}
