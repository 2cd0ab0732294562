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

package bootstrap

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Step is a single external-tool invocation in a bootstrap plan.
type Step struct {
	// Title is the human-readable status line announced before the step runs.
	Title string
	// Tool is the executable to spawn, either a bare name resolved via PATH
	// or a path into the project virtual environment.
	Tool string
	Args []string
	// Dir is the working directory for the invocation.
	Dir string
	// Env is the full environment for the invocation. When nil the step
	// inherits the parent process environment.
	Env []string
}

// Runner executes a single step. The default implementation spawns the tool
// and waits for it to exit; tests substitute a recording implementation.
type Runner interface {
	Run(ctx context.Context, step Step) error
}

// ExecRunner spawns each step's tool and blocks until the process exits.
type ExecRunner struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
}

func NewExecRunner(verbose bool) *ExecRunner {
	return &ExecRunner{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Verbose: verbose,
	}
}

func (r *ExecRunner) Run(ctx context.Context, step Step) error {
	cmd := exec.CommandContext(ctx, step.Tool, step.Args...)
	cmd.Dir = step.Dir
	if len(step.Env) > 0 {
		cmd.Env = step.Env
	}

	if r.Verbose {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
		return cmd.Run()
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail == "" {
			return err
		}
		return errors.Wrap(err, detail)
	}
	return nil
}

// RunAll executes steps strictly in order, waiting for each external process
// to exit before the next begins. The report callback, when set, is invoked
// with each step before it is spawned. The first failure aborts the sequence
// with an error naming the failed step.
func RunAll(ctx context.Context, r Runner, steps []Step, report func(Step)) error {
	for _, step := range steps {
		if report != nil {
			report(step)
		}
		if err := r.Run(ctx, step); err != nil {
			return errors.Wrap(err, step.Title)
		}
	}
	return nil
}
