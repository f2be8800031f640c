// Package buildinfo contains build-time metadata separate from user configuration
package buildinfo

import "runtime"

// UnknownValue is reported for metadata that was not injected at build time
const UnknownValue = "unknown"

// BuildInfo provides an interface for accessing build-time metadata.
type BuildInfo interface {
	// GetVersion returns the build version string
	GetVersion() string
	// GetBuildDate returns the build date string
	GetBuildDate() string
	// GetCommit returns the source revision
	GetCommit() string
}

// Context contains build-time metadata that is not user-configurable.
// It is injected at startup through linker flags in main.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string

	// Commit is the Git revision the binary was built from
	Commit string
}

// NewContext creates a build context
func NewContext(version, buildDate, commit string) *Context {
	return &Context{
		Version:   version,
		BuildDate: buildDate,
		Commit:    commit,
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return UnknownValue
	}
	return s
}

// GetVersion implements BuildInfo.GetVersion
func (c *Context) GetVersion() string {
	if c == nil {
		return UnknownValue
	}
	return valueOrUnknown(c.Version)
}

// GetBuildDate implements BuildInfo.GetBuildDate
func (c *Context) GetBuildDate() string {
	if c == nil {
		return UnknownValue
	}
	return valueOrUnknown(c.BuildDate)
}

// GetCommit implements BuildInfo.GetCommit
func (c *Context) GetCommit() string {
	if c == nil {
		return UnknownValue
	}
	return valueOrUnknown(c.Commit)
}

// GoVersion returns the Go toolchain version used for the build
func GoVersion() string {
	return runtime.Version()
}

var _ BuildInfo = (*Context)(nil)
