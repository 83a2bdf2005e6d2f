package update

// InstallOptions are passed through to `cargo install` unchanged.
type InstallOptions struct {
	// Jobs caps cargo's parallel build jobs; 0 leaves the cargo default.
	Jobs int
	// Locked passes --locked to minimize breakage from drifted lockfiles.
	Locked  bool
	Verbose bool
}

type Options struct {
	// Ask gates the whole batch behind a single confirmation prompt.
	Ask     bool
	Install InstallOptions
}

// Result records one install attempt. Failures stay per-package so the
// remaining installs still run.
type Result struct {
	Name string
	Err  error
}
