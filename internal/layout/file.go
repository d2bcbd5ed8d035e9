package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// File is the on-disk YAML shape of a layout. Angles are degrees measured
// according to Convention.
type File struct {
	Center     Point        `yaml:"center"`
	Rings      Rings        `yaml:"rings"`
	PocketRing float64      `yaml:"pocket_ring,omitempty"`
	Convention Convention   `yaml:"convention"`
	Pockets    []PocketFile `yaml:"pockets"`
}

type PocketFile struct {
	Number    int     `yaml:"number"`
	CenterDeg float64 `yaml:"center_deg"`
	StartDeg  float64 `yaml:"start_deg"`
	EndDeg    float64 `yaml:"end_deg"`
	Centroid  Point   `yaml:"centroid,omitempty"`
	Polygon   []Point `yaml:"polygon,omitempty,flow"`
}

func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML layout and normalizes every angle into the canonical frame.
func Parse(data []byte) (*Layout, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidLayout, err)
	}
	return f.Layout()
}

func (f *File) Layout() (*Layout, error) {
	pockets := make([]Pocket, len(f.Pockets))
	for i, p := range f.Pockets {
		start := f.Convention.Normalize(p.StartDeg)
		end := f.Convention.Normalize(p.EndDeg)
		if f.Convention.Clockwise {
			// a clockwise range flips orientation once mirrored
			start, end = end, start
		}
		pockets[i] = Pocket{
			Number:   p.Number,
			Center:   f.Convention.Normalize(p.CenterDeg),
			Start:    start,
			End:      end,
			Centroid: p.Centroid,
			Polygon:  p.Polygon,
		}
	}
	l := &Layout{
		CX:         f.Center.X,
		CY:         f.Center.Y,
		Rings:      f.Rings,
		PocketR:    f.PocketRing,
		Pockets:    pockets,
		Convention: f.Convention,
	}
	if err := l.finish(); err != nil {
		return nil, err
	}
	return l, nil
}

// ToFile renders the layout in the canonical convention.
func (l *Layout) ToFile() *File {
	f := &File{
		Center:     Point{X: l.CX, Y: l.CY},
		Rings:      l.Rings,
		PocketRing: l.PocketR,
		Pockets:    make([]PocketFile, len(l.Pockets)),
	}
	for i, p := range l.Pockets {
		f.Pockets[i] = PocketFile{
			Number:    p.Number,
			CenterDeg: dynamo.Rad2Deg(p.Center),
			StartDeg:  dynamo.Rad2Deg(p.Start),
			EndDeg:    dynamo.Rad2Deg(p.End),
			Centroid:  p.Centroid,
			Polygon:   p.Polygon,
		}
	}
	return f
}

func (l *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l.ToFile())
}

func Save(path string, l *Layout) error {
	data, err := l.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
