// Package project identifies the type of project owning a marker directory
// by probing well-known manifest files in its parent directory.
package project

import (
	"os"
	"path/filepath"
)

// Detect returns the project type label for the directory containing
// markerPath. Probes are ordered so the more specific frameworks win
// before falling back to their ecosystem label.
func Detect(markerPath string) string {
	parent := filepath.Dir(markerPath)
	if parent == markerPath || parent == "" {
		return "Unknown"
	}

	if fileExists(parent, "Cargo.toml") {
		return "Rust"
	}

	if fileExists(parent, "package.json") {
		if fileExists(parent, "next.config.js") ||
			fileExists(parent, "next.config.mjs") ||
			fileExists(parent, "next.config.ts") {
			return "Next.js"
		}
		if fileExists(parent, "nuxt.config.ts") || fileExists(parent, "nuxt.config.js") {
			return "Nuxt"
		}
		if fileExists(parent, "vite.config.ts") || fileExists(parent, "vite.config.js") {
			return "Vite"
		}
		if fileExists(parent, "angular.json") {
			return "Angular"
		}
		return "Node.js"
	}

	if fileExists(parent, "pyproject.toml") ||
		fileExists(parent, "setup.py") ||
		fileExists(parent, "requirements.txt") {
		return "Python"
	}

	if fileExists(parent, "go.mod") {
		return "Go"
	}

	if fileExists(parent, "pubspec.yaml") {
		return "Flutter"
	}

	if fileExists(parent, "Gemfile") {
		return "Ruby"
	}

	if fileExists(parent, "pom.xml") ||
		fileExists(parent, "build.gradle") ||
		fileExists(parent, "build.gradle.kts") {
		return "Java"
	}

	return "Unknown"
}

func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
