package terrain

import (
	"strconv"
	"strings"

	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// SubtypeStep is the path step that descends into a feature's subtype
const SubtypeStep = "s"

// RootPath returns the path of the i-th top-level feature
func RootPath(i int) string {
	return strconv.Itoa(i)
}

// ChildPath returns the path of the i-th child under parent
func ChildPath(parent string, i int) string {
	return parent + "." + strconv.Itoa(i)
}

// SubtypePath returns the path of parent's subtype
func SubtypePath(parent string) string {
	return parent + "." + SubtypeStep
}

// Walk visits every feature depth-first in generation order, parents before
// their subtype and children.
func Walk(features []*Feature, fn func(path string, f *Feature)) {
	for i, f := range features {
		walk(RootPath(i), f, fn)
	}
}

func walk(path string, f *Feature, fn func(path string, f *Feature)) {
	fn(path, f)
	if sub, ok := f.Subtype(); ok {
		walk(SubtypePath(path), sub, fn)
	}
	for i, child := range f.children {
		walk(ChildPath(path, i), child, fn)
	}
}

// Mysteries returns the paths of every feature still waiting to be resolved
func Mysteries(features []*Feature) []string {
	var paths []string
	Walk(features, func(path string, f *Feature) {
		if f.Mysterious() {
			paths = append(paths, path)
		}
	})
	return paths
}

// Count returns the number of nodes in the forest
func Count(features []*Feature) int {
	n := 0
	Walk(features, func(string, *Feature) { n++ })
	return n
}

// Locate finds the feature addressed by path, e.g. "3", "0.2" or "3.s"
func Locate(features []*Feature, path string) (*Feature, error) {
	steps := strings.Split(strings.TrimSpace(path), ".")
	if len(steps) == 0 || steps[0] == "" {
		return nil, terrerr.InvalidArgument("feature path is required")
	}

	root, err := strconv.Atoi(steps[0])
	if err != nil {
		return nil, terrerr.InvalidArgumentf("invalid feature path %q", path)
	}
	if root < 0 || root >= len(features) {
		return nil, terrerr.NotFoundf("no feature at %q", path).
			WithMeta("path", path)
	}

	current := features[root]
	for _, step := range steps[1:] {
		if step == SubtypeStep {
			sub, ok := current.Subtype()
			if !ok {
				return nil, terrerr.NotFoundf("%s has no subtype at %q", current.Name(), path).
					WithMeta("path", path)
			}
			current = sub
			continue
		}

		i, err := strconv.Atoi(step)
		if err != nil {
			return nil, terrerr.InvalidArgumentf("invalid feature path %q", path)
		}
		if i < 0 || i >= len(current.children) {
			return nil, terrerr.NotFoundf("no feature at %q", path).
				WithMeta("path", path)
		}
		current = current.children[i]
	}

	return current, nil
}
