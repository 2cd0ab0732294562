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

package util

import (
	"fmt"

	"github.com/pkg/browser"
)

const (
	DocsURL = "https://github.com/repostkit/repost-cli#readme"
)

// OpenDocs opens the project documentation in the default browser.
func OpenDocs() error {
	if err := browser.OpenURL(DocsURL); err != nil {
		return fmt.Errorf("failed to open docs: %w", err)
	}
	return nil
}
