package fonts

import (
	"fmt"
	"strings"

	"github.com/flopp/go-findfont"
)

// Finder locates a font file by name or path.
type Finder func(name string) (string, error)

// SystemFinder searches the working directory and the platform font
// directories.
func SystemFinder(name string) (string, error) {
	return findfont.Find(name)
}

// Files names the font files for one family. Entries may be paths or bare
// file names to search for.
type Files struct {
	Regular string `toml:"regular"`
	Bold    string `toml:"bold"`
}

// Miss records a font that could not be loaded.
type Miss struct {
	Family string
	Weight Weight
	Err    error
}

func (m Miss) String() string {
	return fmt.Sprintf("%s %s: %v", m.Family, m.Weight, m.Err)
}

// LoadFiles registers explicitly configured font files.
func LoadFiles(b *Book, files map[string]Files, find Finder) []Miss {
	var misses []Miss
	for name, f := range files {
		for _, entry := range []struct {
			w    Weight
			file string
		}{{Regular, f.Regular}, {Bold, f.Bold}} {
			if entry.file == "" {
				continue
			}
			if err := load(b, name, entry.w, entry.file, find); err != nil {
				misses = append(misses, Miss{Family: name, Weight: entry.w, Err: err})
			}
		}
	}
	return misses
}

// Discover tries to find installed fonts for each family in families that is
// not registered yet, guessing file names from the family name
// ("Noto Naskh Arabic" -> NotoNaskhArabic-Regular, NotoNaskhArabic-Bold).
func Discover(b *Book, families []string, find Finder) []Miss {
	var misses []Miss
	seen := map[string]bool{}
	for _, name := range families {
		key := normalize(name)
		if key == "" || key == Serif || seen[key] || b.Has(key) {
			continue
		}
		seen[key] = true
		stem := strings.ReplaceAll(strings.Trim(strings.TrimSpace(name), `"'`), " ", "")

		if err := loadFirst(b, key, Regular, find, stem+"-Regular", stem); err != nil {
			misses = append(misses, Miss{Family: key, Weight: Regular, Err: err})
			continue
		}
		// Bold is optional; regular stands in for it.
		_ = loadFirst(b, key, Bold, find, stem+"-Bold")
	}
	return misses
}

func loadFirst(b *Book, name string, w Weight, find Finder, candidates ...string) error {
	var err error
	for _, c := range candidates {
		if err = load(b, name, w, c, find); err == nil {
			return nil
		}
	}
	return err
}

func load(b *Book, name string, w Weight, file string, find Finder) error {
	path, err := find(file)
	if err != nil {
		return err
	}
	return b.RegisterFile(name, w, path)
}
