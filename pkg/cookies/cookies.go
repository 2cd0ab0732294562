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

// Package cookies parses the tab-separated cookie exports (as copied out of
// the browser devtools storage panel) that the automation uses to establish
// an authenticated session.
package cookies

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Cookie is one line of a devtools cookie export.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite string
}

// AuthCookies are the session cookies the automation cannot run without.
var AuthCookies = []string{"auth_token", "ct0"}

// checkMark is how the devtools table renders boolean cookie attributes.
const checkMark = "✓"

// Parse reads a tab-separated cookie export. Blank lines and //-comments are
// skipped, as are rows too short to carry name, value, and domain. Field
// layout follows the devtools storage table: name, value, domain, path,
// expiry, secure, httpOnly, sameSite.
func Parse(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}

		cookie := Cookie{
			Name:   parts[0],
			Value:  parts[1],
			Domain: parts[2],
		}
		if len(parts) > 3 {
			cookie.Path = parts[3]
		}
		if len(parts) > 5 && strings.Contains(parts[5], checkMark) {
			cookie.Secure = true
		}
		if len(parts) > 6 && strings.Contains(parts[6], checkMark) {
			cookie.HTTPOnly = true
		}
		if len(parts) > 7 {
			switch parts[7] {
			case "None", "Lax", "Strict":
				cookie.SameSite = parts[7]
			}
		}

		cookies = append(cookies, cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read cookie export")
	}

	return cookies, nil
}

// ParseFile is Parse against an export on disk.
func ParseFile(path string) ([]Cookie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open cookie export")
	}
	defer f.Close()
	return Parse(f)
}

// ValidateAuth verifies the export carries every session cookie the
// automation needs, with non-empty values.
func ValidateAuth(cookies []Cookie) error {
	byName := make(map[string]Cookie, len(cookies))
	for _, c := range cookies {
		byName[c.Name] = c
	}

	var missing []string
	for _, name := range AuthCookies {
		c, ok := byName[name]
		if !ok || c.Value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("cookie export is missing session cookies: %s", strings.Join(missing, ", "))
	}
	return nil
}
