package report

import (
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/danmuck/gdsstream/internal/stream/event"
	"github.com/danmuck/gdsstream/internal/stream/field"
	"gopkg.in/yaml.v3"
)

// Bounds is the smallest box holding every XY point seen.
type Bounds struct {
	MinX int32 `json:"min_x" yaml:"min_x"`
	MinY int32 `json:"min_y" yaml:"min_y"`
	MaxX int32 `json:"max_x" yaml:"max_x"`
	MaxY int32 `json:"max_y" yaml:"max_y"`
}

// SummaryReport is the rendered form of a Summary. Source, Records, Bytes
// and Error are filled in by the caller.
type SummaryReport struct {
	Source     string           `json:"source" yaml:"source"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
	Records    int64            `json:"records" yaml:"records"`
	Bytes      int64            `json:"bytes" yaml:"bytes"`
	Version    uint16           `json:"version" yaml:"version"`
	Library    string           `json:"library" yaml:"library"`
	Modified   field.Timestamp  `json:"modified" yaml:"modified"`
	Units      *event.Units     `json:"units,omitempty" yaml:"units,omitempty"`
	Structures int              `json:"structures" yaml:"structures"`
	Elements   map[string]int   `json:"elements" yaml:"elements"`
	Events     map[string]int64 `json:"events" yaml:"events"`
	Layers     []uint16         `json:"layers" yaml:"layers"`
	References []string         `json:"references" yaml:"references"`
	Bounds     *Bounds          `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

// Summary accumulates library statistics from an event stream.
type Summary struct {
	version    uint16
	library    string
	modified   field.Timestamp
	sawModTime bool
	units      *event.Units
	structures int
	elements   map[string]int
	events     map[string]int64
	layers     map[uint16]struct{}
	references map[string]struct{}
	bounds     *Bounds
}

func NewSummary() *Summary {
	return &Summary{
		elements:   map[string]int{},
		events:     map[string]int64{},
		layers:     map[uint16]struct{}{},
		references: map[string]struct{}{},
	}
}

func (s *Summary) Handle(ev event.Event) {
	s.events[ev.Kind().String()]++
	switch e := ev.(type) {
	case event.Version:
		s.version = e.Version
	case event.LibName:
		s.library = e.Name
	case event.ModTime:
		if !s.sawModTime {
			s.modified = e.Time
			s.sawModTime = true
		}
	case event.Units:
		u := e
		s.units = &u
	case event.StrName:
		s.structures++
	case event.BoundaryStart:
		s.elements["boundary"]++
	case event.PathStart:
		s.elements["path"]++
	case event.BoxStart:
		s.elements["box"]++
	case event.NodeStart:
		s.elements["node"]++
	case event.TextStart:
		s.elements["text"]++
	case event.SrefStart:
		s.elements["sref"]++
	case event.ArefStart:
		s.elements["aref"]++
	case event.Layer:
		s.layers[e.Layer] = struct{}{}
	case event.Sname:
		s.references[e.Name] = struct{}{}
	case event.XY:
		s.grow(e.Points)
	}
}

func (s *Summary) grow(pts []field.Point) {
	if len(pts) == 0 {
		return
	}
	if s.bounds == nil {
		s.bounds = &Bounds{
			MinX: math.MaxInt32, MinY: math.MaxInt32,
			MaxX: math.MinInt32, MaxY: math.MinInt32,
		}
	}
	b := s.bounds
	for _, p := range pts {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
}

// Report snapshots the accumulated state with sorted layers and references.
func (s *Summary) Report() SummaryReport {
	layers := make([]uint16, 0, len(s.layers))
	for l := range s.layers {
		layers = append(layers, l)
	}
	slices.Sort(layers)

	refs := make([]string, 0, len(s.references))
	for r := range s.references {
		refs = append(refs, r)
	}
	slices.Sort(refs)

	rep := SummaryReport{
		Version:    s.version,
		Library:    s.library,
		Modified:   s.modified,
		Structures: s.structures,
		Elements:   maps.Clone(s.elements),
		Events:     maps.Clone(s.events),
		Layers:     layers,
		References: refs,
	}
	if s.units != nil {
		u := *s.units
		rep.Units = &u
	}
	if s.bounds != nil {
		b := *s.bounds
		rep.Bounds = &b
	}
	return rep
}

// WriteSummaries renders reports in order as text or yaml.
func WriteSummaries(w io.Writer, format string, reports []SummaryReport) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, rep := range reports {
			if err := enc.Encode(rep); err != nil {
				return fmt.Errorf("report: encode summary %s: %w", rep.Source, err)
			}
		}
		return enc.Close()
	case "text":
		for i, rep := range reports {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, summaryText(rep)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("report: unknown summary format %q", format)
	}
}

func summaryText(rep SummaryReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", rep.Source)
	if rep.Error != "" {
		fmt.Fprintf(&sb, "  error:      %s\n", rep.Error)
	}
	fmt.Fprintf(&sb, "  records:    %d (%d bytes)\n", rep.Records, rep.Bytes)
	fmt.Fprintf(&sb, "  version:    %d\n", rep.Version)
	fmt.Fprintf(&sb, "  library:    %s\n", rep.Library)
	fmt.Fprintf(&sb, "  modified:   %s\n", rep.Modified)
	if rep.Units != nil {
		fmt.Fprintf(&sb, "  units:      %g user, %g m\n", rep.Units.User, rep.Units.Database)
	}
	fmt.Fprintf(&sb, "  structures: %d\n", rep.Structures)

	kinds := make([]string, 0, len(rep.Elements))
	for k := range rep.Elements {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, rep.Elements[k]))
	}
	fmt.Fprintf(&sb, "  elements:   %s\n", strings.Join(parts, " "))

	layers := make([]string, 0, len(rep.Layers))
	for _, l := range rep.Layers {
		layers = append(layers, fmt.Sprint(l))
	}
	fmt.Fprintf(&sb, "  layers:     %s\n", strings.Join(layers, ","))
	fmt.Fprintf(&sb, "  references: %s\n", strings.Join(rep.References, ","))
	if b := rep.Bounds; b != nil {
		fmt.Fprintf(&sb, "  bounds:     (%d,%d)-(%d,%d)\n", b.MinX, b.MinY, b.MaxX, b.MaxY)
	}
	return sb.String()
}
