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

// Package pyproject inspects the automation project's Python surface: the
// dependency manifest, the interpreter version, and which package manager
// the project expects.
package pyproject

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

const (
	// Playwright dropped 3.8 support; anything older cannot drive the engine.
	MinPythonVersion = "3.9"

	PlaywrightPackage    = "playwright"
	MinPlaywrightVersion = "1.40.0"
)

// Requirement is a single line of a pip manifest.
type Requirement struct {
	Name       string
	Constraint string // ==, >=, ~=, etc.; empty when unpinned
	Version    string
}

var requirementPattern = regexp.MustCompile(`^([A-Za-z0-9._-]+)(?:\[[^\]]+\])?\s*([=~><!]+)?\s*([^#;,\s]+)?`)

// ParseRequirements reads a pip manifest, skipping comments, blank lines,
// and option lines (-r, --index-url and friends).
func ParseRequirements(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		matches := requirementPattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		reqs = append(reqs, Requirement{
			Name:       strings.ToLower(matches[1]),
			Constraint: matches[2],
			Version:    strings.TrimSpace(matches[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ParseRequirementsFile is ParseRequirements against a manifest on disk.
func ParseRequirementsFile(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRequirements(f)
}

// FindRequirement returns the requirement with the given (normalized) name.
func FindRequirement(reqs []Requirement, name string) (Requirement, bool) {
	name = strings.ToLower(name)
	for _, r := range reqs {
		if r.Name == name {
			return r, true
		}
	}
	return Requirement{}, false
}

// CheckPlaywrightPin verifies the manifest declares playwright and, when a
// concrete version is pinned, that it is recent enough to drive the engine
// installer.
func CheckPlaywrightPin(manifestPath string) error {
	reqs, err := ParseRequirementsFile(manifestPath)
	if err != nil {
		return err
	}

	req, ok := FindRequirement(reqs, PlaywrightPackage)
	if !ok {
		return fmt.Errorf("%s is not declared in %s", PlaywrightPackage, filepath.Base(manifestPath))
	}
	if req.Version == "" {
		// unpinned resolves to latest, which always satisfies the floor
		return nil
	}

	version, err := semver.NewVersion(req.Version)
	if err != nil {
		return fmt.Errorf("unparseable %s version %q: %w", PlaywrightPackage, req.Version, err)
	}
	floor := semver.MustParse(MinPlaywrightVersion)
	if version.LessThan(floor) {
		return fmt.Errorf("%s %s is too old, please upgrade to %s or newer",
			PlaywrightPackage, req.Version, MinPlaywrightVersion)
	}
	return nil
}

var pythonVersionPattern = regexp.MustCompile(`Python\s+(\d+\.\d+(?:\.\d+)?)`)

// ParsePythonVersion extracts the interpreter version from the output of
// `python3 --version`.
func ParsePythonVersion(output string) (*semver.Version, error) {
	matches := pythonVersionPattern.FindStringSubmatch(output)
	if matches == nil {
		return nil, fmt.Errorf("unrecognized interpreter version output %q", strings.TrimSpace(output))
	}
	return semver.NewVersion(matches[1])
}

// CheckPythonVersion gates the interpreter against MinPythonVersion.
func CheckPythonVersion(output string) error {
	version, err := ParsePythonVersion(output)
	if err != nil {
		return err
	}
	constraint, err := semver.NewConstraint(">= " + MinPythonVersion)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("python %s is too old, %s or newer is required", version, MinPythonVersion)
	}
	return nil
}

type Manager string

const (
	ManagerPip     Manager = "pip"
	ManagerUV      Manager = "uv"
	ManagerPoetry  Manager = "poetry"
	ManagerUnknown Manager = "unknown"
)

// DetectManager determines which package manager the project expects by
// checking for lock files and pyproject.toml tool sections. Only pip-driven
// projects can be bootstrapped by the built-in plan; the rest are surfaced
// so the caller can warn.
func DetectManager(dir string) (Manager, error) {
	exists := func(name string) bool {
		info, err := os.Stat(filepath.Join(dir, name))
		return err == nil && !info.IsDir()
	}

	if exists("uv.lock") {
		return ManagerUV, nil
	}
	if exists("poetry.lock") {
		return ManagerPoetry, nil
	}
	if exists("requirements.txt") || exists("Pipfile.lock") || exists("pdm.lock") {
		return ManagerPip, nil
	}

	if exists("pyproject.toml") {
		data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
		if err == nil {
			var doc map[string]any
			if err := toml.Unmarshal(data, &doc); err == nil {
				if tool, ok := doc["tool"].(map[string]any); ok {
					if _, hasPoetry := tool["poetry"]; hasPoetry {
						return ManagerPoetry, nil
					}
					if _, hasUV := tool["uv"]; hasUV {
						return ManagerUV, nil
					}
				}
			}
		}
		// pyproject.toml present but not informative
		return ManagerPip, nil
	}

	return ManagerUnknown, fmt.Errorf("no manifest found; expected requirements.txt or pyproject.toml in %s", dir)
}
