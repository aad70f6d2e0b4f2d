// Package frame extracts length-prefixed records from a byte stream.
//
// Wire layout per record:
// - length: uint16 big-endian, counts itself; 0 ends the stream
// - record type: uint8
// - data type: uint8
// - payload: length-4 bytes
package frame
