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
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTOMLFileMissing(t *testing.T) {
	_, exists, err := LoadTOMLFile(t.TempDir(), RepostTOMLFile)
	assert.False(t, exists)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadTOMLFileDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "[project]\nname = \"undo-retweet\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, RepostTOMLFile), []byte(content), 0644))

	c, exists, err := LoadTOMLFile(dir, RepostTOMLFile)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, "undo-retweet", c.Project.Name)
	assert.Equal(t, DefaultEntrypoint, c.Project.Entrypoint)
	assert.Equal(t, "venv", c.Project.VenvDir)
	assert.Equal(t, "requirements.txt", c.Project.Manifest)
	assert.Equal(t, DefaultEngine, c.Automation.Engine)
	assert.Equal(t, DefaultCookieFile, c.Automation.CookieFile)
	assert.Equal(t, MinIntervalHours, c.Automation.IntervalHours)
}

func TestLoadTOMLFileOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[project]
name = "chat-repost"
entrypoint = "undo_retweet.py"
venv_dir = ".venv"

[automation]
engine = "firefox"
cookie_file = "exports/cookies.txt"
interval_hours = 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, RepostTOMLFile), []byte(content), 0644))

	c, _, err := LoadTOMLFile(dir, RepostTOMLFile)
	require.NoError(t, err)
	assert.Equal(t, "undo_retweet.py", c.Project.Entrypoint)
	assert.Equal(t, ".venv", c.Project.VenvDir)
	assert.Equal(t, "firefox", c.Automation.Engine)
	assert.Equal(t, "exports/cookies.txt", c.Automation.CookieFile)
	assert.Equal(t, 3, c.Automation.IntervalHours)
}

func TestValidate(t *testing.T) {
	c := NewRepostTOML("x")
	require.NoError(t, c.Validate())

	c.Automation.IntervalHours = 6
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	c = NewRepostTOML("x")
	c.Automation.Engine = "netscape"
	err = c.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEngine))
}

func TestSaveAndReloadTOML(t *testing.T) {
	dir := t.TempDir()
	c := NewRepostTOML("undo-retweet")
	c.Automation.IntervalHours = 2
	require.NoError(t, c.SaveTOMLFile(dir, RepostTOMLFile))

	reloaded, exists, err := LoadTOMLFile(dir, RepostTOMLFile)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, c.Project.Name, reloaded.Project.Name)
	assert.Equal(t, 2, reloaded.Automation.IntervalHours)
}

func TestRememberProject(t *testing.T) {
	c := &CLIConfig{}
	c.RememberProject("undo-retweet", "/work/a")
	c.RememberProject("chat-repost", "/work/b")
	c.RememberProject("Undo-Retweet", "/work/c")

	require.Len(t, c.Projects, 2)
	assert.Equal(t, "/work/c", c.Projects[0].Dir)
	assert.Equal(t, "undo-retweet", c.DefaultProject)
	assert.True(t, c.ProjectExists("UNDO-RETWEET"))
	assert.False(t, c.ProjectExists("other"))
}
