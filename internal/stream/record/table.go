package record

import (
	"github.com/danmuck/gdsstream/internal/stream"
	"github.com/danmuck/gdsstream/internal/stream/event"
	"github.com/danmuck/gdsstream/internal/stream/field"
)

var table = buildTable(
	Spec{Type: stream.Header, DataType: stream.Int2, Emits: kinds(event.KindVersion), Decode: uint16Event(func(v uint16) event.Event { return event.Version{Version: v} })},
	Spec{Type: stream.BgnLib, DataType: stream.Int2, Emits: kinds(event.KindModTime, event.KindAccessTime), Decode: decodeTimes},
	Spec{Type: stream.LibName, DataType: stream.ASCII, Emits: kinds(event.KindLibName), Decode: stringEvent(func(s string) event.Event { return event.LibName{Name: s} })},
	Spec{Type: stream.Units, DataType: stream.Real8, Emits: kinds(event.KindUnits), Decode: decodeUnits},
	Spec{Type: stream.EndLib, DataType: stream.NoData, Emits: kinds(event.KindEndLibrary), Decode: markerEvent(event.EndLibrary{})},
	Spec{Type: stream.BgnStr, DataType: stream.Int2, Emits: kinds(event.KindModTime, event.KindAccessTime), Decode: decodeTimes},
	Spec{Type: stream.StrName, DataType: stream.ASCII, Emits: kinds(event.KindStrName), Decode: stringEvent(func(s string) event.Event { return event.StrName{Name: s} })},
	Spec{Type: stream.EndStr, DataType: stream.NoData, Emits: kinds(event.KindEndStructure), Decode: markerEvent(event.EndStructure{})},
	Spec{Type: stream.Boundary, DataType: stream.NoData, Emits: kinds(event.KindBoundaryStart), Decode: markerEvent(event.BoundaryStart{})},
	Spec{Type: stream.Path, DataType: stream.NoData, Emits: kinds(event.KindPathStart), Decode: markerEvent(event.PathStart{})},
	Spec{Type: stream.Sref, DataType: stream.NoData, Emits: kinds(event.KindSrefStart), Decode: markerEvent(event.SrefStart{})},
	Spec{Type: stream.Aref, DataType: stream.NoData, Emits: kinds(event.KindArefStart), Decode: markerEvent(event.ArefStart{})},
	Spec{Type: stream.Text, DataType: stream.NoData, Emits: kinds(event.KindTextStart), Decode: markerEvent(event.TextStart{})},
	Spec{Type: stream.Layer, DataType: stream.Int2, Emits: kinds(event.KindLayer), Decode: uint16Event(func(v uint16) event.Event { return event.Layer{Layer: v} })},
	Spec{Type: stream.Datatype, DataType: stream.Int2, Emits: kinds(event.KindDataType), Decode: uint16Event(func(v uint16) event.Event { return event.DataType{DataType: v} })},
	Spec{Type: stream.Width, DataType: stream.Int4, Emits: kinds(event.KindWidth), Decode: int32Event(func(v int32) event.Event { return event.Width{Width: v} })},
	Spec{Type: stream.XY, DataType: stream.Int4, Emits: kinds(event.KindXY), Decode: decodeXY},
	Spec{Type: stream.EndEl, DataType: stream.NoData, Emits: kinds(event.KindEndElement), Decode: markerEvent(event.EndElement{})},
	Spec{Type: stream.Sname, DataType: stream.ASCII, Emits: kinds(event.KindSname), Decode: stringEvent(func(s string) event.Event { return event.Sname{Name: s} })},
	Spec{Type: stream.ColRow, DataType: stream.Int2, Emits: kinds(event.KindColumnsRows), Decode: decodeColRow},
	Spec{Type: stream.TextNode, DataType: stream.NoData},
	Spec{Type: stream.Node, DataType: stream.NoData, Emits: kinds(event.KindNodeStart), Decode: markerEvent(event.NodeStart{})},
	Spec{Type: stream.TextType, DataType: stream.Int2, Emits: kinds(event.KindTextType), Decode: uint16Event(func(v uint16) event.Event { return event.TextType{TextType: v} })},
	Spec{Type: stream.Presentation, DataType: stream.BitArray, Emits: kinds(event.KindPresentation), Decode: decodePresentation},
	Spec{Type: stream.Spacing, DataType: stream.NoData},
	Spec{Type: stream.String, DataType: stream.ASCII, Emits: kinds(event.KindString), Decode: stringEvent(func(s string) event.Event { return event.String{Text: s} })},
	Spec{Type: stream.Strans, DataType: stream.BitArray, Emits: kinds(event.KindStrans), Decode: uint16Event(func(v uint16) event.Event { return event.Strans{Flags: v} })},
	Spec{Type: stream.Mag, DataType: stream.Real8, Emits: kinds(event.KindMag), Decode: real64Event(func(v float64) event.Event { return event.Mag{Mag: v} })},
	Spec{Type: stream.Angle, DataType: stream.Real8, Emits: kinds(event.KindAngle), Decode: real64Event(func(v float64) event.Event { return event.Angle{Degrees: v} })},
	Spec{Type: stream.UInteger, DataType: stream.NoData},
	Spec{Type: stream.UString, DataType: stream.NoData},
	Spec{Type: stream.RefLibs, DataType: stream.ASCII},
	Spec{Type: stream.Fonts, DataType: stream.ASCII},
	Spec{Type: stream.PathType, DataType: stream.Int2, Emits: kinds(event.KindPathType), Decode: uint16Event(func(v uint16) event.Event { return event.PathType{PathType: v} })},
	Spec{Type: stream.Generations, DataType: stream.Int2},
	Spec{Type: stream.AttrTable, DataType: stream.ASCII},
	Spec{Type: stream.StypTable, DataType: stream.ASCII},
	Spec{Type: stream.StrType, DataType: stream.Int2},
	Spec{Type: stream.ElFlags, DataType: stream.BitArray},
	Spec{Type: stream.ElKey, DataType: stream.Int4},
	Spec{Type: stream.LinkType, DataType: stream.NoData},
	Spec{Type: stream.LinkKeys, DataType: stream.NoData},
	Spec{Type: stream.NodeType, DataType: stream.Int2, Emits: kinds(event.KindNodeType), Decode: uint16Event(func(v uint16) event.Event { return event.NodeType{NodeType: v} })},
	Spec{Type: stream.PropAttr, DataType: stream.Int2, Emits: kinds(event.KindPropAttr), Decode: uint16Event(func(v uint16) event.Event { return event.PropAttr{Attr: v} })},
	Spec{Type: stream.PropValue, DataType: stream.ASCII, Emits: kinds(event.KindPropValue), Decode: stringEvent(func(s string) event.Event { return event.PropValue{Value: s} })},
	Spec{Type: stream.Box, DataType: stream.NoData, Emits: kinds(event.KindBoxStart), Decode: markerEvent(event.BoxStart{})},
	Spec{Type: stream.BoxType, DataType: stream.Int2, Emits: kinds(event.KindBoxType), Decode: uint16Event(func(v uint16) event.Event { return event.BoxType{BoxType: v} })},
	Spec{Type: stream.Plex, DataType: stream.Int4, Emits: kinds(event.KindPlex), Decode: int32Event(func(v int32) event.Event { return event.Plex{Plex: v} })},
	Spec{Type: stream.BgnExtn, DataType: stream.Int4, Emits: kinds(event.KindBeginExtension), Decode: int32Event(func(v int32) event.Event { return event.BeginExtension{Extension: v} })},
	Spec{Type: stream.EndExtn, DataType: stream.Int4, Emits: kinds(event.KindEndExtension), Decode: int32Event(func(v int32) event.Event { return event.EndExtension{Extension: v} })},
	Spec{Type: stream.TapeNum, DataType: stream.Int2},
	Spec{Type: stream.TapeCode, DataType: stream.Int2},
	Spec{Type: stream.StrClass, DataType: stream.BitArray},
	Spec{Type: stream.Reserved, DataType: stream.Int4},
	Spec{Type: stream.Format, DataType: stream.Int2},
	Spec{Type: stream.Mask, DataType: stream.ASCII},
	Spec{Type: stream.EndMasks, DataType: stream.NoData},
	Spec{Type: stream.LibDirSize, DataType: stream.Int2},
	Spec{Type: stream.SrfName, DataType: stream.ASCII},
	Spec{Type: stream.LibSecur, DataType: stream.Int2},
)

func buildTable(specs ...Spec) map[stream.RecordType]Spec {
	out := make(map[stream.RecordType]Spec, len(specs))
	for _, spec := range specs {
		if _, dup := out[spec.Type]; dup {
			panic("record: duplicate table row for " + spec.Type.String())
		}
		out[spec.Type] = spec
	}
	return out
}

func kinds(k ...event.Kind) []event.Kind {
	return k
}

func one(ev event.Event) []event.Event {
	return []event.Event{ev}
}

func markerEvent(ev event.Event) DecodeFunc {
	return func(*field.Cursor) ([]event.Event, error) {
		return one(ev), nil
	}
}

func uint16Event(build func(uint16) event.Event) DecodeFunc {
	return func(c *field.Cursor) ([]event.Event, error) {
		v, err := c.Uint16()
		if err != nil {
			return nil, err
		}
		return one(build(v)), nil
	}
}

func int32Event(build func(int32) event.Event) DecodeFunc {
	return func(c *field.Cursor) ([]event.Event, error) {
		v, err := c.Int32()
		if err != nil {
			return nil, err
		}
		return one(build(v)), nil
	}
}

func real64Event(build func(float64) event.Event) DecodeFunc {
	return func(c *field.Cursor) ([]event.Event, error) {
		v, err := c.Real64()
		if err != nil {
			return nil, err
		}
		return one(build(v)), nil
	}
}

func stringEvent(build func(string) event.Event) DecodeFunc {
	return func(c *field.Cursor) ([]event.Event, error) {
		return one(build(c.Rest())), nil
	}
}

func decodeTimes(c *field.Cursor) ([]event.Event, error) {
	mod, err := c.Timestamp()
	if err != nil {
		return nil, err
	}
	access, err := c.Timestamp()
	if err != nil {
		return nil, err
	}
	return []event.Event{event.ModTime{Time: mod}, event.AccessTime{Time: access}}, nil
}

func decodeUnits(c *field.Cursor) ([]event.Event, error) {
	user, err := c.Real64()
	if err != nil {
		return nil, err
	}
	db, err := c.Real64()
	if err != nil {
		return nil, err
	}
	return one(event.Units{User: user, Database: db}), nil
}

func decodeColRow(c *field.Cursor) ([]event.Event, error) {
	cols, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	rows, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	return one(event.ColumnsRows{Columns: cols, Rows: rows}), nil
}

func decodePresentation(c *field.Cursor) ([]event.Event, error) {
	p, err := c.Presentation()
	if err != nil {
		return nil, err
	}
	return one(event.Presentation{Presentation: p}), nil
}

func decodeXY(c *field.Cursor) ([]event.Event, error) {
	pts, err := c.Points()
	if err != nil {
		return nil, err
	}
	return one(event.XY{Points: pts}), nil
}
