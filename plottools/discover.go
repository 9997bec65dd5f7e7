package plottools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// TileMarker is matched as a substring of file names, so names such as
// "plot.tiff_backup" are picked up too.
const TileMarker = ".tif"

// DateLayout is the only accepted date token format.
const DateLayout = "2006-01-02"

var dateToken = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Discover walks root and returns every file whose name contains TileMarker,
// in walk order.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &ConfigError{Subject: root, Reason: "input directory does not exist"}
	}
	if !info.IsDir() {
		return nil, &ConfigError{Subject: root, Reason: "input path is not a directory"}
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.Contains(d.Name(), TileMarker) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s (looking for file names containing %q)", ErrNoInput, root, TileMarker)
	}
	logrus.Infof("Images to process: %d", len(paths))
	return paths, nil
}

// ResolveDate finds the first YYYY-MM-DD token in dir.
func ResolveDate(dir string) (time.Time, error) {
	token := dateToken.FindString(dir)
	if token == "" {
		return time.Time{}, &ConfigError{
			Subject: dir,
			Reason:  "cannot find scan/flight date, the input directory must contain a date formatted YYYY-MM-DD",
		}
	}
	date, err := time.Parse(DateLayout, token)
	if err != nil {
		return time.Time{}, &ConfigError{
			Subject: dir,
			Reason:  fmt.Sprintf("date token %q is not a valid YYYY-MM-DD date", token),
		}
	}
	return date, nil
}
