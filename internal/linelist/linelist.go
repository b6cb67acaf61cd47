// Package linelist loads the reference line catalog: per-lamp wavelength
// lists and optional reference lamp spectra, keyed by the lamp name found in
// the OBJECT keyword of a lamp exposure.
package linelist

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cwbudde/algo-wavecal/calib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// KeyLamp is the metadata key holding the lamp name.
const KeyLamp = "OBJECT"

// Lamp is one catalog entry.
type Lamp struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
	// Reference is the path of a wavelength-calibrated lamp spectrum,
	// relative to the catalog file.
	Reference string    `yaml:"reference,omitempty"`
	Lines     []float64 `yaml:"lines"`
}

// Catalog is a set of lamps.
type Catalog struct {
	Lamps []Lamp `yaml:"lamps"`

	dir   string
	index map[string]int
}

var fold = cases.Fold()

func key(name string) string {
	return fold.String(strings.Join(strings.Fields(name), " "))
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("line list not found: %s", path)
		}
		return nil, fmt.Errorf("reading line list: %w", err)
	}
	defer f.Close()
	return Parse(f, filepath.Dir(path))
}

// Parse decodes a catalog. Relative reference paths resolve against dir.
func Parse(r io.Reader, dir string) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing line list YAML: %w", err)
	}
	if len(c.Lamps) == 0 {
		return nil, fmt.Errorf("line list defines no lamps")
	}

	c.dir = dir
	c.index = make(map[string]int)
	for i := range c.Lamps {
		l := &c.Lamps[i]
		if strings.TrimSpace(l.Name) == "" {
			return nil, fmt.Errorf("lamps[%d].name is required", i)
		}
		if len(l.Lines) == 0 {
			return nil, fmt.Errorf("lamps[%d].lines is empty for %s", i, l.Name)
		}
		for _, w := range l.Lines {
			if !(w > 0) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("lamps[%d].lines has invalid wavelength %v", i, w)
			}
		}
		slices.Sort(l.Lines)
		l.Lines = slices.Compact(l.Lines)

		for _, n := range append([]string{l.Name}, l.Aliases...) {
			k := key(n)
			if j, dup := c.index[k]; dup && j != i {
				return nil, fmt.Errorf("lamp name %q is defined twice", n)
			}
			c.index[k] = i
		}
	}
	return &c, nil
}

// Lookup finds a lamp by name or alias, ignoring case and repeated spaces.
// An unknown name is a configuration error on the OBJECT key.
func (c *Catalog) Lookup(name string) (Lamp, error) {
	i, ok := c.index[key(name)]
	if !ok {
		return Lamp{}, &calib.ConfigurationError{Key: KeyLamp, Value: name}
	}
	l := c.Lamps[i]
	l.Lines = slices.Clone(l.Lines)
	return l, nil
}

// ForHeader looks up the lamp named by the exposure metadata.
func (c *Catalog) ForHeader(h calib.Header) (Lamp, error) {
	name, ok := h.Lookup(KeyLamp)
	if !ok {
		return Lamp{}, &calib.ConfigurationError{Key: KeyLamp}
	}
	return c.Lookup(name)
}

// ReferencePath returns the resolved reference spectrum path, or "" when the
// lamp has none.
func (c *Catalog) ReferencePath(l Lamp) string {
	if l.Reference == "" {
		return ""
	}
	if filepath.IsAbs(l.Reference) {
		return l.Reference
	}
	return filepath.Join(c.dir, l.Reference)
}

// Names returns the display names of all lamps.
func (c *Catalog) Names() []string {
	title := cases.Title(language.Und, cases.NoLower)
	out := make([]string, len(c.Lamps))
	for i, l := range c.Lamps {
		out[i] = title.String(l.Name)
	}
	return out
}
