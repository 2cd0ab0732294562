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

// Package engine manages the headless browser runtime through the Playwright
// driver. The bootstrap normally installs the engine through the project
// venv's own playwright CLI; this package is the driver-level fallback and
// the post-setup health check.
package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/playwright-community/playwright-go"
)

func runOptions(name string, verbose bool) *playwright.RunOptions {
	opts := &playwright.RunOptions{
		Browsers: []string{name},
		Verbose:  verbose,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if verbose {
		opts.Stdout = os.Stdout
		opts.Stderr = os.Stderr
	}
	return opts
}

// Install downloads the Playwright driver and the named browser engine into
// the shared browser cache.
func Install(name string, verbose bool) error {
	if err := playwright.Install(runOptions(name, verbose)); err != nil {
		return fmt.Errorf("failed to install %s engine: %w", name, err)
	}
	return nil
}

// Verify launches the named engine headless and opens a blank page, proving
// the installed runtime can actually start on this machine.
func Verify(name string, verbose bool) error {
	pw, err := playwright.Run(runOptions(name, verbose))
	if err != nil {
		return fmt.Errorf("failed to start playwright driver: %w", err)
	}
	defer pw.Stop()

	var browserType playwright.BrowserType
	switch name {
	case "chromium":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		return fmt.Errorf("unsupported browser engine: %s", name)
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	if _, err := page.Goto("about:blank"); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	return page.Close()
}
