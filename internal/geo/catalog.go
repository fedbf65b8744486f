package geo

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/geoglobe/pkg/math"
)

//go:embed points.yaml
var defaultPoints []byte

//go:embed borders.yaml
var defaultBorders []byte

// ErrUnknownPoint is returned when a lookup does not match any catalog entry.
var ErrUnknownPoint = errors.New("unknown point")

// Point is a selectable location on the globe.
type Point struct {
	ID        string  `yaml:"id" json:"id"`
	Capital   string  `yaml:"capital" json:"capital"`
	Code      string  `yaml:"code" json:"code"`
	Latitude  float64 `yaml:"lat" json:"lat"`
	Longitude float64 `yaml:"lon" json:"lon"`
}

// Position returns the point's scene-space position at the given radius.
func (p Point) Position(radius float64) math.Vec3 {
	return Place(p.Latitude, p.Longitude, radius)
}

// Catalog is the immutable point-of-interest list.
type Catalog struct {
	home   Point
	points []Point
	byID   map[string]int
	rings  [][][2]float64
}

type catalogFile struct {
	Home    Point         `yaml:"home"`
	Points  []Point       `yaml:"points"`
	Borders [][][]float64 `yaml:"borders"`
}

// DefaultCatalog decodes the embedded point list.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultPoints)
}

// LoadCatalog reads a catalog from a YAML file. An empty path loads the embedded list.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a catalog document and sorts points by ID. A document
// without a borders section gets the embedded outlines.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	c, err := NewCatalog(f.Home, f.Points)
	if err != nil {
		return nil, err
	}

	raw := f.Borders
	if raw == nil {
		var d catalogFile
		if err := yaml.Unmarshal(defaultBorders, &d); err != nil {
			return nil, fmt.Errorf("decoding borders: %w", err)
		}
		raw = d.Borders
	}
	if c.rings, err = decodeRings(raw); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeRings(raw [][][]float64) ([][][2]float64, error) {
	rings := make([][][2]float64, 0, len(raw))
	for i, ring := range raw {
		r := make([][2]float64, len(ring))
		for j, pair := range ring {
			if len(pair) != 2 {
				return nil, fmt.Errorf("border ring %d point %d: want [lon, lat], got %d values", i, j, len(pair))
			}
			r[j] = [2]float64{pair[0], pair[1]}
		}
		rings = append(rings, r)
	}
	return rings, nil
}

// NewCatalog builds a catalog from a home point and a list of points.
// IDs must be unique and non-empty. The result has no borders.
func NewCatalog(home Point, points []Point) (*Catalog, error) {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].ID) < strings.ToLower(sorted[j].ID)
	})

	byID := make(map[string]int, len(sorted))
	for i, p := range sorted {
		if p.ID == "" {
			return nil, fmt.Errorf("point %d has no id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate point id %q", p.ID)
		}
		byID[p.ID] = i
	}
	if home.ID == "" {
		home = Point{ID: "Home", Capital: "Home Base", Code: "HOME", Latitude: 40, Longitude: -100}
	}
	return &Catalog{home: home, points: sorted, byID: byID}, nil
}

// Home returns the home-base location.
func (c *Catalog) Home() Point {
	return c.home
}

// Len returns the number of points.
func (c *Catalog) Len() int {
	return len(c.points)
}

// At returns the point at index i in catalog order.
func (c *Catalog) At(i int) Point {
	return c.points[i]
}

// Points returns a copy of the point list.
func (c *Catalog) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Lookup finds a point by ID, falling back to a case-insensitive code match.
func (c *Catalog) Lookup(key string) (Point, int, error) {
	if i, ok := c.byID[key]; ok {
		return c.points[i], i, nil
	}
	for i, p := range c.points {
		if strings.EqualFold(p.Code, key) {
			return p, i, nil
		}
	}
	return Point{}, -1, fmt.Errorf("%w: %q", ErrUnknownPoint, key)
}

// Markers returns scene positions for every point, in catalog order.
func (c *Catalog) Markers(radius float64) []math.Vec3 {
	out := make([]math.Vec3, len(c.points))
	for i, p := range c.points {
		out[i] = p.Position(radius)
	}
	return out
}

// Borders returns the border rings as scene segments at radius.
func (c *Catalog) Borders(radius float64) []Segment {
	return BorderSegments(c.rings, radius)
}

// MenuEntry is one item of the navigation dock.
type MenuEntry struct {
	ID    string
	Code  string
	Label string
	Home  bool
}

// MenuEntries returns the dock entries: home first, then every point.
func (c *Catalog) MenuEntries() []MenuEntry {
	out := make([]MenuEntry, 0, len(c.points)+1)
	out = append(out, MenuEntry{ID: c.home.ID, Code: "⌂", Label: "HOME BASE", Home: true})
	for _, p := range c.points {
		out = append(out, MenuEntry{ID: p.ID, Code: p.Code, Label: p.ID})
	}
	return out
}
