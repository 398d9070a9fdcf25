package gameloc

import "runtime"

// Name is the application name.
const Name = "gameloc"

// Description is a short description of the application.
const Description = "Game localization translation engine with AI providers, correction table and review"

// Build information. These are typically set via ldflags during build:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gameloc.Version=1.0.0 -X github.com/ZaguanLabs/gameloc.GitCommit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of the application.
	Version = "0.3.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended
// when it is known, e.g. "0.3.0+1a2b3c4".
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// GoVersion returns the Go toolchain the binary was built with.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
