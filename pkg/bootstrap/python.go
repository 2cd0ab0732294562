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
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	DefaultPython   = "python3"
	DefaultVenvDir  = "venv"
	DefaultManifest = "requirements.txt"
)

// activationProbe exits non-zero when the interpreter is not actually running
// inside the virtual environment it was resolved from.
const activationProbe = "import sys; raise SystemExit(0 if sys.prefix != getattr(sys, 'base_prefix', sys.prefix) else 1)"

// Venv is the on-disk layout of a project virtual environment. Activation is
// modeled explicitly: Environ computes the environment that later invocations
// are threaded with, rather than relying on ambient shell state.
type Venv struct {
	Root string
}

func NewVenv(projectDir, dir string) Venv {
	if filepath.IsAbs(dir) {
		return Venv{Root: dir}
	}
	return Venv{Root: filepath.Join(projectDir, dir)}
}

func (v Venv) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Root, "Scripts")
	}
	return filepath.Join(v.Root, "bin")
}

func (v Venv) tool(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(v.BinDir(), name)
}

func (v Venv) Python() string     { return v.tool("python") }
func (v Venv) Pip() string        { return v.tool("pip") }
func (v Venv) Playwright() string { return v.tool("playwright") }

// Exists reports whether the venv directory has been initialized by the
// environment tool. pyvenv.cfg is written on creation and is the most
// reliable marker across platforms and Python versions.
func (v Venv) Exists() bool {
	info, err := os.Stat(filepath.Join(v.Root, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// Environ derives the activation environment from base: VIRTUAL_ENV points at
// the venv root, the venv bin directory heads PATH, and PYTHONHOME is
// stripped so the host interpreter cannot leak in.
func (v Venv) Environ(base []string) []string {
	root, err := filepath.Abs(v.Root)
	if err != nil {
		root = v.Root
	}

	env := make([]string, 0, len(base)+2)
	var basePath string
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch {
		case strings.EqualFold(key, "PYTHONHOME"), strings.EqualFold(key, "VIRTUAL_ENV"):
			continue
		case strings.EqualFold(key, "PATH"):
			basePath = value
			continue
		}
		env = append(env, kv)
	}

	binDir, err := filepath.Abs(v.BinDir())
	if err != nil {
		binDir = v.BinDir()
	}
	path := binDir
	if basePath != "" {
		path += string(os.PathListSeparator) + basePath
	}

	env = append(env, "VIRTUAL_ENV="+root)
	env = append(env, "PATH="+path)
	return env
}

// SetupSteps returns the ordered bootstrap plan for a project: create the
// venv, verify activation, install the manifest dependencies, and install
// the browser engine. Every step after creation carries the activation
// environment so tools resolve from the venv rather than the host.
func SetupSteps(projectDir, python string, v Venv, manifest, engine string, base []string) []Step {
	env := v.Environ(base)
	return []Step{
		{
			Title: "Creating virtual environment",
			Tool:  python,
			Args:  []string{"-m", "venv", v.Root},
			Dir:   projectDir,
		},
		{
			Title: "Activating virtual environment",
			Tool:  v.Python(),
			Args:  []string{"-c", activationProbe},
			Dir:   projectDir,
			Env:   env,
		},
		{
			Title: "Installing dependencies",
			Tool:  v.Pip(),
			Args:  []string{"install", "-r", manifest},
			Dir:   projectDir,
			Env:   env,
		},
		{
			Title: "Installing browser engine",
			Tool:  v.Playwright(),
			Args:  []string{"install", engine},
			Dir:   projectDir,
			Env:   env,
		},
	}
}
