package ingest

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// partFilePattern matches the upstream writer's part file naming,
// e.g. simulation_output_part_001.csv.
var partFilePattern = regexp.MustCompile(`^simulation_output_part_(\d+)\.csv$`)

// DiscoverInput returns the highest-numbered part file in dir.
// The highest part holds the latest simulation state, which is the
// conventional default input.
func DiscoverInput(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", newIngestionError(ErrNoPartFiles, dir, err)
		}
		return "", newIngestionError(ErrSourceUnreadable, dir, err)
	}

	type part struct {
		name string
		num  int
	}
	var parts []part
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := partFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, part{name: e.Name(), num: n})
	}

	if len(parts) == 0 {
		return "", newIngestionError(ErrNoPartFiles, dir, nil)
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].num < parts[j].num })
	return filepath.Join(dir, parts[len(parts)-1].name), nil
}

// SourceID derives a stable identifier from an input path, used in
// output filenames. For input/simulation_output_part_003.csv it
// returns "simulation_output_part_003".
func SourceID(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
