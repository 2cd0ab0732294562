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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestLoadOrCreateEmpty(t *testing.T) {
	tempHome(t)

	c, err := LoadOrCreate()
	require.NoError(t, err)
	assert.Empty(t, c.Projects)

	// nothing known yet, nothing to write
	require.NoError(t, c.PersistIfNeeded())
	home, _ := os.UserHomeDir()
	_, err = os.Stat(filepath.Join(home, ".repost", "cli-config.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveProject(t *testing.T) {
	tempHome(t)

	c := &CLIConfig{}
	c.RememberProject("undo-retweet", "/work/a")
	c.RememberProject("chat-repost", "/work/b")
	require.Equal(t, "undo-retweet", c.DefaultProject)

	require.NoError(t, c.RemoveProject("undo-retweet"))
	require.Len(t, c.Projects, 1)
	assert.Equal(t, "chat-repost", c.Projects[0].Name)
	assert.Empty(t, c.DefaultProject)
	assert.False(t, c.ProjectExists("undo-retweet"))

	// removal persists, and the survivor round-trips
	reloaded, err := LoadOrCreate()
	require.NoError(t, err)
	require.Len(t, reloaded.Projects, 1)
	assert.Equal(t, "/work/b", reloaded.Projects[0].Dir)
}
