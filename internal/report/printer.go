// Package report renders decoded events for people and pipelines.
package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/danmuck/gdsstream/internal/stream/event"
	"github.com/danmuck/gdsstream/internal/stream/field"
	"gopkg.in/yaml.v3"
)

// Printer consumes events and writes them out. Write errors are sticky and
// surface from Flush.
type Printer interface {
	Handle(ev event.Event)
	Flush() error
}

// NewPrinter selects a printer by format name: text, json or yaml.
func NewPrinter(format string, w io.Writer) (Printer, error) {
	switch format {
	case "text":
		return NewText(w), nil
	case "json":
		return NewJSON(w), nil
	case "yaml":
		return NewYAML(w), nil
	default:
		return nil, fmt.Errorf("report: unknown format %q", format)
	}
}

type Text struct {
	w *bufio.Writer
}

func NewText(w io.Writer) *Text {
	return &Text{w: bufio.NewWriter(w)}
}

func (p *Text) Flush() error {
	return p.w.Flush()
}

func (p *Text) Handle(ev event.Event) {
	w := p.w
	switch e := ev.(type) {
	case event.Version:
		fmt.Fprintf(w, "GDSII Version: %d\n", e.Version)
	case event.ModTime:
		fmt.Fprintf(w, "Modified Time:\n\t%s\n", timestampText(e.Time))
	case event.AccessTime:
		fmt.Fprintf(w, "Accessed Time:\n\t%s\n", timestampText(e.Time))
	case event.LibName:
		fmt.Fprintf(w, "LibName: %s\n", e.Name)
	case event.Units:
		fmt.Fprintf(w, "UserUnits: %.9f\nDBUnits: %.9f\n", e.User, e.Database)
	case event.StrName:
		fmt.Fprintf(w, "StrName: %s\n", e.Name)
	case event.BoundaryStart:
		w.WriteString("Boundary start\n")
	case event.PathStart:
		w.WriteString("Path start\n")
	case event.BoxStart:
		w.WriteString("Box start\n")
	case event.NodeStart:
		w.WriteString("Node start\n")
	case event.TextStart:
		w.WriteString("Text start\n")
	case event.SrefStart:
		w.WriteString("Sref start\n")
	case event.ArefStart:
		w.WriteString("Aref start\n")
	case event.EndElement:
		w.WriteString("Element end\n")
	case event.EndStructure:
		w.WriteString("Structure end\n")
	case event.EndLibrary:
		w.WriteString("Lib end\n")
	case event.ColumnsRows:
		fmt.Fprintf(w, "Columns: %d Rows: %d\n", e.Columns, e.Rows)
	case event.PathType:
		fmt.Fprintf(w, "PathType: %d\n", e.PathType)
	case event.Strans:
		fmt.Fprintf(w, "Strans: %d\n", int16(e.Flags))
	case event.Presentation:
		fmt.Fprintf(w, "Font: %d\nValign: %d\nHalign: %d\n", e.Font, e.VAlign, e.HAlign)
	case event.Sname:
		fmt.Fprintf(w, "Sname: %s\n", e.Name)
	case event.String:
		fmt.Fprintf(w, "String: %s\n", e.Text)
	case event.PropValue:
		fmt.Fprintf(w, "Prop Value: %s\n", e.Value)
	case event.XY:
		fmt.Fprintf(w, "XY: %d\n", len(e.Points))
		for _, pt := range e.Points {
			fmt.Fprintf(w, "(%d,%d)", pt.X, pt.Y)
		}
		w.WriteByte('\n')
	case event.Layer:
		fmt.Fprintf(w, "Layer: %d\n", e.Layer)
	case event.Width:
		fmt.Fprintf(w, "Width: %d\n", e.Width)
	case event.Plex:
		fmt.Fprintf(w, "Plex: %d head=%t\n", e.Number(), e.Head())
	case event.DataType:
		fmt.Fprintf(w, "Data Type: %d\n", e.DataType)
	case event.TextType:
		fmt.Fprintf(w, "Text Type: %d\n", e.TextType)
	case event.Angle:
		fmt.Fprintf(w, "Angle: %g\n", e.Degrees)
	case event.Mag:
		fmt.Fprintf(w, "Mag: %g\n", e.Mag)
	case event.BeginExtension:
		fmt.Fprintf(w, "Begin Extension: %d\n", e.Extension)
	case event.EndExtension:
		fmt.Fprintf(w, "End Extension: %d\n", e.Extension)
	case event.PropAttr:
		fmt.Fprintf(w, "Property Number: %d\n", e.Attr)
	case event.NodeType:
		fmt.Fprintf(w, "Node Type: %d\n", e.NodeType)
	case event.BoxType:
		fmt.Fprintf(w, "Box Type: %d\n", e.BoxType)
	default:
		fmt.Fprintf(w, "%s\n", ev.Kind())
	}
}

func timestampText(ts field.Timestamp) string {
	if !ts.Recorded {
		return "Not recorded."
	}
	return ts.String()
}

// JSON writes one object per line, tagged with the event kind.
type JSON struct {
	w   *bufio.Writer
	err error
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: bufio.NewWriter(w)}
}

func (p *JSON) Handle(ev event.Event) {
	if p.err != nil {
		return
	}
	line, err := MarshalJSON(ev)
	if err != nil {
		p.err = err
		return
	}
	p.w.Write(line)
	p.w.WriteByte('\n')
}

func (p *JSON) Flush() error {
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

// MarshalJSON encodes ev as a flat object whose first key is "kind".
func MarshalJSON(ev event.Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("report: encode %s: %w", ev.Kind(), err)
	}
	var out bytes.Buffer
	out.WriteString(`{"kind":`)
	kind, _ := json.Marshal(ev.Kind().String())
	out.Write(kind)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		out.WriteByte(',')
		out.Write(inner)
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// YAML writes a document stream, one document per event.
type YAML struct {
	enc *yaml.Encoder
	err error
}

func NewYAML(w io.Writer) *YAML {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAML{enc: enc}
}

func (p *YAML) Handle(ev event.Event) {
	if p.err != nil {
		return
	}
	node, err := yamlNode(ev)
	if err != nil {
		p.err = err
		return
	}
	p.err = p.enc.Encode(node)
}

func (p *YAML) Flush() error {
	if p.err != nil {
		return p.err
	}
	return p.enc.Close()
}

func yamlNode(ev event.Event) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(ev); err != nil {
		return nil, fmt.Errorf("report: encode %s: %w", ev.Kind(), err)
	}
	kind := []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "kind"},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: ev.Kind().String()},
	}
	node.Content = append(kind, node.Content...)
	node.Style = 0
	return &node, nil
}
