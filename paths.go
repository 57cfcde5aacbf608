package xgxtrace

import (
	"path"
	"runtime"
	"slices"
	"strings"
)

// defaultRoot is the framework's installation root: the directory holding
// this package's sources.
var defaultRoot = func() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return path.Dir(file)
}()

// defaultInclude lists the subpaths of the root whose frames stay visible.
var defaultInclude = []string{
	"config",
	"experimental",
	"testutil",
}

// DefaultRoot returns the directory the framework sources live in.
func DefaultRoot() string { return defaultRoot }

// PathSet decides which frames belong to user code. The zero value treats
// every frame as user code.
//
// Matching is by plain string prefix on file paths. A path that merely shares
// a prefix with the root or an include entry (".../config_extra.go" against
// "config") is classified as if it were under it.
type PathSet struct {
	root    string
	include []string
}

// NewPathSet builds a PathSet for the framework rooted at root. Include
// entries are relative to root. Runtime file paths are slash separated on
// every platform, so entries are joined with package path, not filepath.
func NewPathSet(root string, include ...string) PathSet {
	ps := PathSet{root: root, include: make([]string, 0, len(include))}
	for _, p := range include {
		ps.include = append(ps.include, path.Join(root, p))
	}
	return ps
}

// DefaultPathSet is the PathSet for this framework's own tree.
func DefaultPathSet() PathSet {
	return NewPathSet(defaultRoot, defaultInclude...)
}

// Root returns the framework root.
func (ps PathSet) Root() string { return ps.root }

// Includes returns the absolute include prefixes.
func (ps PathSet) Includes() []string { return slices.Clone(ps.include) }

// Include reports whether f is relevant to the user: it lives outside the
// root, or under one of the include prefixes.
func (ps PathSet) Include(f Frame) bool {
	if ps.root == "" || !strings.HasPrefix(f.File, ps.root) {
		return true
	}
	for _, p := range ps.include {
		if strings.HasPrefix(f.File, p) {
			return true
		}
	}
	return false
}
