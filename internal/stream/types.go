package stream

import "fmt"

// RecordType is the one-byte tag selecting how a record's payload decodes.
type RecordType uint8

// Record types from the Calma stream description.
const (
	Header       RecordType = 0x00
	BgnLib       RecordType = 0x01
	LibName      RecordType = 0x02
	Units        RecordType = 0x03
	EndLib       RecordType = 0x04
	BgnStr       RecordType = 0x05
	StrName      RecordType = 0x06
	EndStr       RecordType = 0x07
	Boundary     RecordType = 0x08
	Path         RecordType = 0x09
	Sref         RecordType = 0x0a
	Aref         RecordType = 0x0b
	Text         RecordType = 0x0c
	Layer        RecordType = 0x0d
	Datatype     RecordType = 0x0e // element datatype number, not the DataType tag byte
	Width        RecordType = 0x0f
	XY           RecordType = 0x10
	EndEl        RecordType = 0x11
	Sname        RecordType = 0x12
	ColRow       RecordType = 0x13
	TextNode     RecordType = 0x14
	Node         RecordType = 0x15
	TextType     RecordType = 0x16
	Presentation RecordType = 0x17
	Spacing      RecordType = 0x18
	String       RecordType = 0x19
	Strans       RecordType = 0x1a
	Mag          RecordType = 0x1b
	Angle        RecordType = 0x1c
	UInteger     RecordType = 0x1d
	UString      RecordType = 0x1e
	RefLibs      RecordType = 0x1f
	Fonts        RecordType = 0x20
	PathType     RecordType = 0x21
	Generations  RecordType = 0x22
	AttrTable    RecordType = 0x23
	StypTable    RecordType = 0x24
	StrType      RecordType = 0x25
	ElFlags      RecordType = 0x26
	ElKey        RecordType = 0x27
	LinkType     RecordType = 0x28
	LinkKeys     RecordType = 0x29
	NodeType     RecordType = 0x2a
	PropAttr     RecordType = 0x2b
	PropValue    RecordType = 0x2c
	Box          RecordType = 0x2d
	BoxType      RecordType = 0x2e
	Plex         RecordType = 0x2f
	BgnExtn      RecordType = 0x30
	EndExtn      RecordType = 0x31
	TapeNum      RecordType = 0x32
	TapeCode     RecordType = 0x33
	StrClass     RecordType = 0x34
	Reserved     RecordType = 0x35
	Format       RecordType = 0x36
	Mask         RecordType = 0x37
	EndMasks     RecordType = 0x38
	LibDirSize   RecordType = 0x39
	SrfName      RecordType = 0x3a
	LibSecur     RecordType = 0x3b
)

var recordTypeNames = [...]string{
	"HEADER", "BGNLIB", "LIBNAME", "UNITS", "ENDLIB", "BGNSTR", "STRNAME", "ENDSTR",
	"BOUNDARY", "PATH", "SREF", "AREF", "TEXT", "LAYER", "DATATYPE", "WIDTH",
	"XY", "ENDEL", "SNAME", "COLROW", "TEXTNODE", "NODE", "TEXTTYPE", "PRESENTATION",
	"SPACING", "STRING", "STRANS", "MAG", "ANGLE", "UINTEGER", "USTRING", "REFLIBS",
	"FONTS", "PATHTYPE", "GENERATIONS", "ATTRTABLE", "STYPTABLE", "STRTYPE", "ELFLAGS", "ELKEY",
	"LINKTYPE", "LINKKEYS", "NODETYPE", "PROPATTR", "PROPVALUE", "BOX", "BOXTYPE", "PLEX",
	"BGNEXTN", "ENDEXTN", "TAPENUM", "TAPECODE", "STRCLASS", "RESERVED", "FORMAT", "MASK",
	"ENDMASKS", "LIBDIRSIZE", "SRFNAME", "LIBSECUR",
}

// Named reports whether t is one of the tags defined by the format.
func (t RecordType) Named() bool {
	return int(t) < len(recordTypeNames)
}

func (t RecordType) String() string {
	if t.Named() {
		return recordTypeNames[t]
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(t))
}

// DataType is the second tag byte, declaring how the payload is laid out.
// Dispatch never depends on it.
type DataType uint8

const (
	NoData   DataType = 0x00
	BitArray DataType = 0x01
	Int2     DataType = 0x02
	Int4     DataType = 0x03
	Real4    DataType = 0x04
	Real8    DataType = 0x05
	ASCII    DataType = 0x06
)

var dataTypeNames = [...]string{
	"NO_DATA", "BIT_ARRAY", "INTEGER_2", "INTEGER_4", "REAL_4", "REAL_8", "ASCII_STRING",
}

func (d DataType) String() string {
	if int(d) < len(dataTypeNames) {
		return dataTypeNames[d]
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(d))
}
