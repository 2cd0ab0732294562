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

package cookies

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	export := strings.Join([]string{
		"// exported from devtools",
		"",
		"auth_token\tdeadbeef\t.x.com\t/\t2026-01-01\t✓\t✓\tLax",
		"ct0\tcafebabe\t.x.com\t/\t2026-01-01\t✓\t\tNone",
		"guest_id\tv1%3A100\t.x.com",
		"short\tline",
		"theme\tdark\t.x.com\t/\t2026-01-01\t\t\tSession",
	}, "\n")

	cookies, err := Parse(strings.NewReader(export))
	require.NoError(t, err)
	require.Len(t, cookies, 4)

	auth := cookies[0]
	assert.Equal(t, "auth_token", auth.Name)
	assert.Equal(t, "deadbeef", auth.Value)
	assert.Equal(t, ".x.com", auth.Domain)
	assert.Equal(t, "/", auth.Path)
	assert.True(t, auth.Secure)
	assert.True(t, auth.HTTPOnly)
	assert.Equal(t, "Lax", auth.SameSite)

	ct0 := cookies[1]
	assert.True(t, ct0.Secure)
	assert.False(t, ct0.HTTPOnly)
	assert.Equal(t, "None", ct0.SameSite)

	// minimal three-field row
	guest := cookies[2]
	assert.Equal(t, "guest_id", guest.Name)
	assert.Empty(t, guest.Path)
	assert.False(t, guest.Secure)

	// sameSite values outside the whitelist are dropped
	assert.Empty(t, cookies[3].SameSite)
}

func TestParseEmpty(t *testing.T) {
	cookies, err := Parse(strings.NewReader("// nothing here\n\n"))
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestValidateAuth(t *testing.T) {
	tests := []struct {
		name    string
		cookies []Cookie
		wantErr string
	}{
		{
			name: "complete",
			cookies: []Cookie{
				{Name: "auth_token", Value: "deadbeef"},
				{Name: "ct0", Value: "cafebabe"},
			},
		},
		{
			name: "missing ct0",
			cookies: []Cookie{
				{Name: "auth_token", Value: "deadbeef"},
			},
			wantErr: "ct0",
		},
		{
			name: "empty value counts as missing",
			cookies: []Cookie{
				{Name: "auth_token", Value: ""},
				{Name: "ct0", Value: "cafebabe"},
			},
			wantErr: "auth_token",
		},
		{
			name:    "empty export",
			wantErr: "auth_token, ct0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAuth(tt.cookies)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
