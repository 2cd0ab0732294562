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
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/repostkit/repost-cli/pkg/bootstrap"
	"github.com/repostkit/repost-cli/pkg/config"
)

type recordingRunner struct {
	titles []string
}

func (r *recordingRunner) Run(_ context.Context, step bootstrap.Step) error {
	r.titles = append(r.titles, step.Title)
	return nil
}

type setupHarness struct {
	runner         *recordingRunner
	reported       []string
	engineInstalls int
}

func (h *setupHarness) installEngine(_ context.Context) error {
	h.engineInstalls++
	return nil
}

func (h *setupHarness) report(s bootstrap.Step) {
	h.reported = append(h.reported, s.Title)
}

func newHarness() *setupHarness {
	return &setupHarness{runner: &recordingRunner{}}
}

func writeManifest(t *testing.T, dir string) {
	t.Helper()
	manifest := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(manifest, []byte("playwright==1.50.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func seedVenv(t *testing.T, dir string, proj *config.RepostTOML, withShim bool) bootstrap.Venv {
	t.Helper()
	venv := bootstrap.NewVenv(dir, proj.Project.VenvDir)
	if err := os.MkdirAll(venv.BinDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(venv.Root, "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if withShim {
		if err := os.WriteFile(venv.Playwright(), []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return venv
}

func TestRunSetupMissingManifest(t *testing.T) {
	dir := t.TempDir()
	proj := config.NewRepostTOML("probe")
	h := newHarness()

	err := runSetup(context.Background(), dir, proj, setupOptions{python: "python3"}, h.runner, h.installEngine, h.report)
	if err == nil {
		t.Fatal("expected an error for a missing manifest")
	}
	if !strings.Contains(err.Error(), proj.Project.Manifest) {
		t.Errorf("error should name the manifest, got %q", err)
	}
	if len(h.reported) != 0 {
		t.Errorf("no step should be announced, got %v", h.reported)
	}
	if len(h.runner.titles) != 0 {
		t.Errorf("no step should spawn, got %v", h.runner.titles)
	}
	if h.engineInstalls != 0 {
		t.Error("engine installer should not run")
	}
}

func TestRunSetupOrder(t *testing.T) {
	dir := t.TempDir()
	proj := config.NewRepostTOML("probe")
	writeManifest(t, dir)
	h := newHarness()

	if err := runSetup(context.Background(), dir, proj, setupOptions{python: "python3"}, h.runner, h.installEngine, h.report); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Creating virtual environment",
		"Activating virtual environment",
		"Installing dependencies",
		"Installing browser engine",
	}
	if !slices.Equal(h.reported, want) {
		t.Errorf("announced steps = %v, want %v", h.reported, want)
	}
	// no CLI shim in the fake venv, so the engine goes through the driver
	if h.engineInstalls != 1 {
		t.Errorf("engine installer ran %d times, want 1", h.engineInstalls)
	}
	if !slices.Equal(h.runner.titles, want[:3]) {
		t.Errorf("spawned steps = %v, want %v", h.runner.titles, want[:3])
	}
}

func TestRunSetupSilentReuse(t *testing.T) {
	dir := t.TempDir()
	proj := config.NewRepostTOML("probe")
	writeManifest(t, dir)
	venv := seedVenv(t, dir, proj, true)
	h := newHarness()

	opts := setupOptions{python: "python3", silent: true}
	if err := runSetup(context.Background(), dir, proj, opts, h.runner, h.installEngine, h.report); err != nil {
		t.Fatal(err)
	}

	if slices.Contains(h.runner.titles, "Creating virtual environment") {
		t.Error("reuse must not re-create the virtual environment")
	}
	want := []string{
		"Activating virtual environment",
		"Installing dependencies",
		"Installing browser engine",
	}
	if !slices.Equal(h.runner.titles, want) {
		t.Errorf("spawned steps = %v, want %v", h.runner.titles, want)
	}
	if h.engineInstalls != 0 {
		t.Error("shim present, the driver installer should not run")
	}
	if !venv.Exists() {
		t.Error("reuse must leave the existing environment in place")
	}
}

func TestRunSetupForceRecreates(t *testing.T) {
	dir := t.TempDir()
	proj := config.NewRepostTOML("probe")
	writeManifest(t, dir)
	venv := seedVenv(t, dir, proj, true)
	h := newHarness()

	opts := setupOptions{python: "python3", force: true}
	if err := runSetup(context.Background(), dir, proj, opts, h.runner, h.installEngine, h.report); err != nil {
		t.Fatal(err)
	}

	if len(h.runner.titles) == 0 || h.runner.titles[0] != "Creating virtual environment" {
		t.Errorf("force must start from creation, got %v", h.runner.titles)
	}
	if venv.Exists() {
		t.Error("force must remove the existing environment before re-creating")
	}
}
