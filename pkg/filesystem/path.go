package filesystem

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/weberc2/myfs/pkg/directory"
	. "github.com/weberc2/myfs/pkg/types"
)

const (
	Separator = "/"
	Current   = "."
)

// SplitPath breaks a path into directory entry names. Empty and `.`
// segments are dropped, so "", "." and "/" all name the root and a bare
// `name` is the same as `/name`. Components longer than NameSize are
// truncated with a warning.
func SplitPath(logger logrus.FieldLogger, path string) ([]Name, error) {
	if strings.IndexFunc(path, unicode.IsSpace) >= 0 {
		return nil, fmt.Errorf("splitting path %q: %w", path, InvalidPathErr)
	}

	var names []Name
	for _, component := range strings.Split(path, Separator) {
		if component == "" || component == Current {
			continue
		}
		name, truncated := NewName(component)
		if truncated {
			logger.WithFields(logrus.Fields{
				"path":      path,
				"component": component,
				"truncated": name.String(),
			}).Warn("truncating long path component")
		}
		names = append(names, name)
	}
	return names, nil
}

// walk resolves `names` starting from the root. Every component but the
// target must be a directory; the target may be anything.
func walk(fs *directory.FileSystem, names []Name) (InodeIndex, error) {
	index := InodeIndexRoot
	for _, name := range names {
		next, err := directory.Lookup(fs, index, name)
		if err != nil {
			return 0, err
		}
		index = next
	}
	return index, nil
}

func resolve(fs *directory.FileSystem, path string) (InodeIndex, error) {
	names, err := SplitPath(fs.Logger, path)
	if err != nil {
		return 0, err
	}
	index, err := walk(fs, names)
	if err != nil {
		return 0, fmt.Errorf("resolving path `%s`: %w", path, err)
	}
	return index, nil
}
