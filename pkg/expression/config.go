package expression

import "github.com/vexlang/vex/pkg/path"

// ReadOnlyPath marks an external path programs may read but not mutate.
// With Recursive set, the protection covers every path below it too.
type ReadOnlyPath struct {
	Path      path.TargetPath
	Recursive bool
}

// CompileConfig tunes compilation: read-only external paths, unused
// expression checking, and free-form data functions can read during their
// Compile step.
type CompileConfig struct {
	readOnly    []ReadOnlyPath
	checkUnused bool
	custom      map[string]any
}

// NewCompileConfig returns the default configuration: nothing read-only,
// unused expression checking on.
func NewCompileConfig() *CompileConfig {
	return &CompileConfig{checkUnused: true, custom: make(map[string]any)}
}

// SetReadOnlyPath marks an external path read-only.
func (c *CompileConfig) SetReadOnlyPath(p path.TargetPath, recursive bool) {
	c.readOnly = append(c.readOnly, ReadOnlyPath{Path: p, Recursive: recursive})
}

// IsReadOnlyPath reports whether writing the given path is forbidden.
func (c *CompileConfig) IsReadOnlyPath(p path.TargetPath) bool {
	for _, ro := range c.readOnly {
		if ro.Path.Equal(p) {
			return true
		}
		if ro.Recursive && p.StartsWith(ro.Path) {
			return true
		}
		// Writing a parent replaces the protected path too.
		if ro.Path.StartsWith(p) {
			return true
		}
	}
	return false
}

// SetCheckUnused toggles the unused expression check.
func (c *CompileConfig) SetCheckUnused(check bool) { c.checkUnused = check }

// CheckUnused reports whether the unused expression check runs.
func (c *CompileConfig) CheckUnused() bool { return c.checkUnused }

// SetCustom stores a custom configuration value for functions to read.
func (c *CompileConfig) SetCustom(key string, v any) {
	if c.custom == nil {
		c.custom = make(map[string]any)
	}
	c.custom[key] = v
}

// GetCustom returns a custom configuration value.
func (c *CompileConfig) GetCustom(key string) (any, bool) {
	v, ok := c.custom[key]
	return v, ok
}
