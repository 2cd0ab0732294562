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

	"github.com/urfave/cli/v3"

	"github.com/repostkit/repost-cli/pkg/config"
	"github.com/repostkit/repost-cli/pkg/util"
)

var (
	ProjectCommands = []*cli.Command{
		{
			Name:  "project",
			Usage: "View or forget projects bootstrapped on this machine",
			Commands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List bootstrapped projects",
					Action: listProjects,
				},
				{
					Name:      "remove",
					Usage:     "Forget a bootstrapped project",
					UsageText: "rt project remove PROJECT_NAME",
					ArgsUsage: "PROJECT_NAME",
					Action:    removeProject,
				},
			},
		},
	}
)

func listProjects(ctx context.Context, cmd *cli.Command) error {
	conf, err := config.LoadOrCreate()
	if err != nil {
		return err
	}
	if len(conf.Projects) == 0 {
		fmt.Printf("No projects yet, run [%s] to bootstrap one\n", util.Accented("rt setup"))
		return nil
	}

	for _, p := range conf.Projects {
		marker := " "
		if p.Name == conf.DefaultProject {
			marker = "*"
		}
		fmt.Printf("%s %s %s\n", marker, p.Name, util.Dimmed(p.Dir))
	}
	return nil
}

func removeProject(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("project name is required")
	}
	name := cmd.Args().First()

	conf, err := config.LoadOrCreate()
	if err != nil {
		return err
	}
	if !conf.ProjectExists(name) {
		return fmt.Errorf("project [%s] does not exist", name)
	}
	if err := conf.RemoveProject(name); err != nil {
		return err
	}

	fmt.Printf("Removed project [%s]\n", util.Accented(name))
	return nil
}
