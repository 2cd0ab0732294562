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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/repostkit/repost-cli/pkg/util"
)

const (
	RepostTOMLFile = "repost.toml"

	DefaultEntrypoint = "script.py"
	DefaultCookieFile = "cookies.txt"
	DefaultEngine     = "chromium"

	// the automation's interval mode accepts 1-5 hours
	MinIntervalHours = 1
	MaxIntervalHours = 5
)

var (
	ErrInvalidConfig   = errors.New("invalid configuration file")
	ErrInvalidInterval = fmt.Errorf("interval_hours must be between %d and %d: %w", MinIntervalHours, MaxIntervalHours, ErrInvalidConfig)
	ErrInvalidEngine   = fmt.Errorf("unsupported browser engine: %w", ErrInvalidConfig)

	SupportedEngines = []string{"chromium", "firefox", "webkit"}
)

// RepostTOML is the per-project configuration file. Every field has a
// default; a project with no repost.toml bootstraps with the stock layout.
type RepostTOML struct {
	Project    *ProjectTOMLConfig    `toml:"project"`
	Automation *AutomationTOMLConfig `toml:"automation"`
}

type ProjectTOMLConfig struct {
	Name       string `toml:"name"`
	Entrypoint string `toml:"entrypoint"`
	VenvDir    string `toml:"venv_dir"`
	Manifest   string `toml:"manifest"`
}

type AutomationTOMLConfig struct {
	Engine        string `toml:"engine"`
	CookieFile    string `toml:"cookie_file"`
	IntervalHours int    `toml:"interval_hours"`
}

func NewRepostTOML(name string) *RepostTOML {
	return &RepostTOML{
		Project: &ProjectTOMLConfig{
			Name:       name,
			Entrypoint: DefaultEntrypoint,
			VenvDir:    "venv",
			Manifest:   "requirements.txt",
		},
		Automation: &AutomationTOMLConfig{
			Engine:        DefaultEngine,
			CookieFile:    DefaultCookieFile,
			IntervalHours: MinIntervalHours,
		},
	}
}

// ApplyDefaults fills in any field the file left unset.
func (c *RepostTOML) ApplyDefaults() {
	if c.Project == nil {
		c.Project = &ProjectTOMLConfig{}
	}
	if c.Project.Entrypoint == "" {
		c.Project.Entrypoint = DefaultEntrypoint
	}
	if c.Project.VenvDir == "" {
		c.Project.VenvDir = "venv"
	}
	if c.Project.Manifest == "" {
		c.Project.Manifest = "requirements.txt"
	}
	if c.Automation == nil {
		c.Automation = &AutomationTOMLConfig{}
	}
	if c.Automation.Engine == "" {
		c.Automation.Engine = DefaultEngine
	}
	if c.Automation.CookieFile == "" {
		c.Automation.CookieFile = DefaultCookieFile
	}
	if c.Automation.IntervalHours == 0 {
		c.Automation.IntervalHours = MinIntervalHours
	}
}

func (c *RepostTOML) Validate() error {
	if c.Automation != nil {
		if !slices.Contains(SupportedEngines, c.Automation.Engine) {
			return fmt.Errorf("%w: %s", ErrInvalidEngine, c.Automation.Engine)
		}
		if c.Automation.IntervalHours < MinIntervalHours || c.Automation.IntervalHours > MaxIntervalHours {
			return ErrInvalidInterval
		}
	}
	return nil
}

func (c *RepostTOML) SaveTOMLFile(dir string, tomlFileName string) error {
	f, err := os.Create(filepath.Join(dir, tomlFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("error encoding TOML: %w", err)
	}
	fmt.Printf("Saving config file [%s]\n", util.Accented(tomlFileName))
	return nil
}

// LoadTOMLFile loads the project file from dir. The boolean reports whether
// the file exists; a loaded file has defaults applied and is validated.
func LoadTOMLFile(dir string, tomlFileName string) (*RepostTOML, bool, error) {
	tomlFile := filepath.Join(dir, tomlFileName)

	if _, err := os.Stat(tomlFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		return nil, true, err
	}

	var config *RepostTOML
	if _, err := toml.DecodeFile(tomlFile, &config); err != nil {
		return nil, true, err
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, true, err
	}
	return config, true, nil
}
