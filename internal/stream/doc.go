// Package stream owns the GDSII stream wire contract.
//
// Ownership boundary:
// - record and data type tags
// - error taxonomy shared by framer, field decoders and dispatcher
//
// Subpackages:
// - frame: length-prefixed record extraction
// - field: fixed-format payload decoders
// - record: tag table and dispatch to events
// - event: decoded event variants
package stream
