// Package event defines the decoded events handed to consumers.
//
// Every event owns its data; nothing aliases the record buffer it was
// decoded from.
package event

import "github.com/danmuck/gdsstream/internal/stream/field"

type Kind uint8

const (
	KindVersion Kind = iota + 1
	KindModTime
	KindAccessTime
	KindLibName
	KindUnits
	KindStrName
	KindBoundaryStart
	KindPathStart
	KindBoxStart
	KindNodeStart
	KindTextStart
	KindSrefStart
	KindArefStart
	KindEndElement
	KindEndStructure
	KindEndLibrary
	KindColumnsRows
	KindPathType
	KindStrans
	KindPresentation
	KindSname
	KindString
	KindPropValue
	KindXY
	KindLayer
	KindWidth
	KindPlex
	KindDataType
	KindTextType
	KindAngle
	KindMag
	KindBeginExtension
	KindEndExtension
	KindPropAttr
	KindNodeType
	KindBoxType
)

var kindNames = map[Kind]string{
	KindVersion:        "version",
	KindModTime:        "mod_time",
	KindAccessTime:     "access_time",
	KindLibName:        "lib_name",
	KindUnits:          "units",
	KindStrName:        "str_name",
	KindBoundaryStart:  "boundary_start",
	KindPathStart:      "path_start",
	KindBoxStart:       "box_start",
	KindNodeStart:      "node_start",
	KindTextStart:      "text_start",
	KindSrefStart:      "sref_start",
	KindArefStart:      "aref_start",
	KindEndElement:     "end_element",
	KindEndStructure:   "end_structure",
	KindEndLibrary:     "end_library",
	KindColumnsRows:    "columns_rows",
	KindPathType:       "path_type",
	KindStrans:         "strans",
	KindPresentation:   "presentation",
	KindSname:          "sname",
	KindString:         "string",
	KindPropValue:      "prop_value",
	KindXY:             "xy",
	KindLayer:          "layer",
	KindWidth:          "width",
	KindPlex:           "plex",
	KindDataType:       "data_type",
	KindTextType:       "text_type",
	KindAngle:          "angle",
	KindMag:            "mag",
	KindBeginExtension: "begin_extension",
	KindEndExtension:   "end_extension",
	KindPropAttr:       "prop_attr",
	KindNodeType:       "node_type",
	KindBoxType:        "box_type",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindVersion; k <= KindBoxType; k++ {
		out = append(out, k)
	}
	return out
}

// Event is one decoded unit of meaning.
type Event interface {
	Kind() Kind
}

type Version struct {
	Version uint16 `json:"version" yaml:"version"`
}

type ModTime struct {
	Time field.Timestamp `json:"time" yaml:"time"`
}

type AccessTime struct {
	Time field.Timestamp `json:"time" yaml:"time"`
}

type LibName struct {
	Name string `json:"name" yaml:"name"`
}

// Units holds the size of a database unit in user units and in meters.
type Units struct {
	User     float64 `json:"user" yaml:"user"`
	Database float64 `json:"database" yaml:"database"`
}

// MetersPerUserUnit divides the database unit in meters by the database unit
// in user units. Zero when User is zero.
func (u Units) MetersPerUserUnit() float64 {
	if u.User == 0 {
		return 0
	}
	return u.Database / u.User
}

type StrName struct {
	Name string `json:"name" yaml:"name"`
}

type BoundaryStart struct{}
type PathStart struct{}
type BoxStart struct{}
type NodeStart struct{}
type TextStart struct{}
type SrefStart struct{}
type ArefStart struct{}

type EndElement struct{}
type EndStructure struct{}
type EndLibrary struct{}

type ColumnsRows struct {
	Columns uint16 `json:"columns" yaml:"columns"`
	Rows    uint16 `json:"rows" yaml:"rows"`
}

type PathType struct {
	PathType uint16 `json:"path_type" yaml:"path_type"`
}

// Strans flag bits.
const (
	StransReflect  uint16 = 0x8000
	StransAbsMag   uint16 = 0x0004
	StransAbsAngle uint16 = 0x0002
)

type Strans struct {
	Flags uint16 `json:"flags" yaml:"flags"`
}

func (s Strans) Reflected() bool { return s.Flags&StransReflect != 0 }
func (s Strans) AbsMag() bool    { return s.Flags&StransAbsMag != 0 }
func (s Strans) AbsAngle() bool  { return s.Flags&StransAbsAngle != 0 }

type Presentation struct {
	field.Presentation `yaml:",inline"`
}

type Sname struct {
	Name string `json:"name" yaml:"name"`
}

type String struct {
	Text string `json:"text" yaml:"text"`
}

type PropValue struct {
	Value string `json:"value" yaml:"value"`
}

type XY struct {
	Points []field.Point `json:"points" yaml:"points"`
}

type Layer struct {
	Layer uint16 `json:"layer" yaml:"layer"`
}

type Width struct {
	Width int32 `json:"width" yaml:"width"`
}

// PlexHead marks the head of a plex group.
const PlexHead int32 = 0x01000000

type Plex struct {
	Plex int32 `json:"plex" yaml:"plex"`
}

func (p Plex) Head() bool    { return p.Plex&PlexHead != 0 }
func (p Plex) Number() int32 { return p.Plex & 0x00ffffff }

type DataType struct {
	DataType uint16 `json:"data_type" yaml:"data_type"`
}

type TextType struct {
	TextType uint16 `json:"text_type" yaml:"text_type"`
}

// Angle is the counter-clockwise rotation in degrees.
type Angle struct {
	Degrees float64 `json:"degrees" yaml:"degrees"`
}

type Mag struct {
	Mag float64 `json:"mag" yaml:"mag"`
}

type BeginExtension struct {
	Extension int32 `json:"extension" yaml:"extension"`
}

type EndExtension struct {
	Extension int32 `json:"extension" yaml:"extension"`
}

type PropAttr struct {
	Attr uint16 `json:"attr" yaml:"attr"`
}

type NodeType struct {
	NodeType uint16 `json:"node_type" yaml:"node_type"`
}

type BoxType struct {
	BoxType uint16 `json:"box_type" yaml:"box_type"`
}

func (Version) Kind() Kind        { return KindVersion }
func (ModTime) Kind() Kind        { return KindModTime }
func (AccessTime) Kind() Kind     { return KindAccessTime }
func (LibName) Kind() Kind        { return KindLibName }
func (Units) Kind() Kind          { return KindUnits }
func (StrName) Kind() Kind        { return KindStrName }
func (BoundaryStart) Kind() Kind  { return KindBoundaryStart }
func (PathStart) Kind() Kind      { return KindPathStart }
func (BoxStart) Kind() Kind       { return KindBoxStart }
func (NodeStart) Kind() Kind      { return KindNodeStart }
func (TextStart) Kind() Kind      { return KindTextStart }
func (SrefStart) Kind() Kind      { return KindSrefStart }
func (ArefStart) Kind() Kind      { return KindArefStart }
func (EndElement) Kind() Kind     { return KindEndElement }
func (EndStructure) Kind() Kind   { return KindEndStructure }
func (EndLibrary) Kind() Kind     { return KindEndLibrary }
func (ColumnsRows) Kind() Kind    { return KindColumnsRows }
func (PathType) Kind() Kind       { return KindPathType }
func (Strans) Kind() Kind         { return KindStrans }
func (Presentation) Kind() Kind   { return KindPresentation }
func (Sname) Kind() Kind          { return KindSname }
func (String) Kind() Kind         { return KindString }
func (PropValue) Kind() Kind      { return KindPropValue }
func (XY) Kind() Kind             { return KindXY }
func (Layer) Kind() Kind          { return KindLayer }
func (Width) Kind() Kind          { return KindWidth }
func (Plex) Kind() Kind           { return KindPlex }
func (DataType) Kind() Kind       { return KindDataType }
func (TextType) Kind() Kind       { return KindTextType }
func (Angle) Kind() Kind          { return KindAngle }
func (Mag) Kind() Kind            { return KindMag }
func (BeginExtension) Kind() Kind { return KindBeginExtension }
func (EndExtension) Kind() Kind   { return KindEndExtension }
func (PropAttr) Kind() Kind       { return KindPropAttr }
func (NodeType) Kind() Kind       { return KindNodeType }
func (BoxType) Kind() Kind        { return KindBoxType }
