package geo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if c.Len() != 22 {
		t.Errorf("expected 22 points, got %d", c.Len())
	}
	for i := 1; i < c.Len(); i++ {
		if c.At(i-1).ID > c.At(i).ID {
			t.Errorf("catalog not sorted at %d: %q > %q", i, c.At(i-1).ID, c.At(i).ID)
		}
	}

	home := c.Home()
	if home.Latitude != 40 || home.Longitude != -100 {
		t.Errorf("home = %+v, want lat 40 lon -100", home)
	}
}

func TestCatalogLookup(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}

	p, i, err := c.Lookup("Japan")
	if err != nil {
		t.Fatalf("Lookup(Japan): %v", err)
	}
	if p.Latitude != 35.6762 || p.Longitude != 139.6503 || c.At(i).ID != "Japan" {
		t.Errorf("Lookup(Japan) = %+v at %d", p, i)
	}

	if p, _, err := c.Lookup("gbr"); err != nil || p.ID != "United Kingdom" {
		t.Errorf("Lookup(gbr) = %+v, %v", p, err)
	}

	if _, _, err := c.Lookup("Atlantis"); !errors.Is(err, ErrUnknownPoint) {
		t.Errorf("expected ErrUnknownPoint, got %v", err)
	}
}

func TestCatalogDerivedViews(t *testing.T) {
	c, err := NewCatalog(Point{}, []Point{
		{ID: "b", Code: "B", Latitude: 1, Longitude: 2},
		{ID: "a", Code: "A", Latitude: 3, Longitude: 4},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	markers := c.Markers(MarkerRadius)
	if len(markers) != 2 || !markers[0].ApproxEqual(Place(3, 4, MarkerRadius), 1e-12) {
		t.Errorf("markers not in catalog order: %v", markers)
	}

	menu := c.MenuEntries()
	if len(menu) != 3 || !menu[0].Home || menu[1].ID != "a" || menu[2].Code != "B" {
		t.Errorf("unexpected menu entries: %+v", menu)
	}

	// Callers get copies; the catalog itself never changes.
	pts := c.Points()
	pts[0].ID = "mutated"
	if c.At(0).ID != "a" {
		t.Error("Points() should return a copy")
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog(Point{}, []Point{{ID: "x"}, {ID: "x"}})
	if err == nil {
		t.Error("expected duplicate id error")
	}
	_, err = NewCatalog(Point{}, []Point{{ID: ""}})
	if err == nil {
		t.Error("expected empty id error")
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.yaml")
	content := `
points:
  - {id: Iceland, capital: Reykjavik, code: ISL, lat: 64.1466, lon: -21.9426}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 1 || c.At(0).Capital != "Reykjavik" {
		t.Errorf("unexpected catalog: %+v", c.Points())
	}
	if c.Home().ID != "Home" {
		t.Errorf("missing home should default, got %+v", c.Home())
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCatalogBorders(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	segs := c.Borders(BorderRadius)
	if len(segs) != 87 {
		t.Fatalf("embedded borders gave %d segments, want 87", len(segs))
	}
	// The first ring starts on the French Atlantic coast.
	if want := Place(43.4, -1.8, BorderRadius); !segs[0].A.ApproxEqual(want, 1e-12) {
		t.Errorf("first segment starts at %v, want %v", segs[0].A, want)
	}
	for i, s := range segs {
		if d := s.A.Length() - BorderRadius; d > 1e-9 || d < -1e-9 {
			t.Fatalf("segment %d off the border shell: |A| = %v", i, s.A.Length())
		}
	}

	bare, err := NewCatalog(Point{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(bare.Borders(BorderRadius)) != 0 {
		t.Error("a catalog built in code should have no borders")
	}
}

func TestParseCatalogBorders(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    int
		wantErr bool
	}{
		{"own borders", "borders:\n  - [[0, 0], [10, 0], [10, 10]]\n", 2, false},
		{"empty borders", "borders: []\n", 0, false},
		{"no borders section", "points: []\n", 87, false},
		{"bad pair", "borders:\n  - [[0, 0, 1], [10, 0]]\n", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCatalog([]byte(tt.doc))
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCatalog: %v", err)
			}
			if got := len(c.Borders(BorderRadius)); got != tt.want {
				t.Errorf("got %d segments, want %d", got, tt.want)
			}
		})
	}
}
