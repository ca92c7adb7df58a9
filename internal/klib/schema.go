// Package klib implements the Klib-Stub Generator (spec §4.3): it lifts Kotlin/
// Native and Kotlin/JS binary-metadata libraries into synthetic Kotlin source
// stubs the Analysis Backend can parse like any other source file.
//
// The real klib metadata schema (KotlinIr's PackageFragment proto) is compiler-
// internal and far larger than anything this core needs; per SPEC_FULL.md this
// decodes only the minimal field subset spec §4.3 names, directly off
// google.golang.org/protobuf/encoding/protowire rather than vendoring the whole
// schema — the same "read only the tag a given step needs" posture the teacher
// takes toward binary formats it does not want to fully model (cmd/symbol_inject
// reads only the symbols it needs out of an ELF file).
package klib

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers for the minimal PackageFragment schema this generator
// understands. Unknown fields are ignored, per protobuf's forward-compatibility
// rules — this generator never fails on a klib produced by a newer compiler
// that adds fields it doesn't know about.
const (
	fieldStrings       = 1 // repeated string: the fragment's string table
	fieldQualifiedName = 2 // repeated QualifiedNameEntry
	fieldTopLevel      = 3 // repeated Declaration
)

const (
	qnFieldParentIndex = 1 // int32, index into the qualified-name table, -1 for root
	qnFieldShortIndex  = 2 // int32, index into the string table
)

const (
	declFieldKind        = 1  // string: CLASS|INTERFACE|OBJECT|ENUM_CLASS|ANNOTATION_CLASS|FUNCTION|PROPERTY
	declFieldNameIndex   = 2  // int32, index into the qualified-name table
	declFieldVisibility  = 3  // string: public|protected|private|internal
	declFieldModality    = 4  // string: "", open, abstract, sealed, final; var marks a mutable PROPERTY
	declFieldTypeParam   = 5  // repeated string
	declFieldSupertype   = 6  // repeated string (rendered type)
	declFieldReceiver    = 7  // TypeRef, optional
	declFieldValueParam  = 8  // repeated Parameter
	declFieldReturnType  = 9  // TypeRef, optional (absent means Unit)
	declFieldIsSuspend   = 10 // bool
	declFieldMember      = 11 // repeated Declaration, recursed once
	declFieldCompanion   = 12 // bool: this object is a companion object
)

const (
	paramFieldName = 1 // string
	paramFieldType = 2 // TypeRef
)

const (
	typeFieldName     = 1 // string, short or fully-qualified
	typeFieldNullable = 2 // bool
	typeFieldArg      = 3 // repeated TypeRef
	typeFieldVariance = 4 // string: "", in, out
	typeFieldStar     = 5 // bool
)

// rawMessage is a decoded (but not interpreted) protobuf message: every field
// number maps to its occurrences in wire order. Repeated fields keep every
// occurrence; singular fields use the last one, per protobuf semantics.
type rawMessage map[uint32][]rawValue

type rawValue struct {
	varint uint64
	bytes  []byte
	kind   protowire.Type
}

// parseMessage decodes buf into a rawMessage, ignoring any field whose wire type
// it does not recognize rather than failing the whole fragment (spec §4.3:
// "any per-fragment or per-declaration failure is swallowed").
func parseMessage(buf []byte) rawMessage {
	msg := rawMessage{}
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return msg
		}
		buf = buf[n:]
		var v rawValue
		v.kind = typ
		switch typ {
		case protowire.VarintType:
			val, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return msg
			}
			v.varint = val
			buf = buf[n:]
		case protowire.BytesType:
			val, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return msg
			}
			v.bytes = val
			buf = buf[n:]
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(buf)
			if n < 0 {
				return msg
			}
			buf = buf[n:]
			continue
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(buf)
			if n < 0 {
				return msg
			}
			buf = buf[n:]
			continue
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return msg
			}
			buf = buf[n:]
			continue
		}
		msg[uint32(num)] = append(msg[uint32(num)], v)
	}
	return msg
}

func (m rawMessage) str(field uint32) (string, bool) {
	vs := m[field]
	if len(vs) == 0 {
		return "", false
	}
	return string(vs[len(vs)-1].bytes), true
}

func (m rawMessage) repeatedStr(field uint32) []string {
	vs := m[field]
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, string(v.bytes))
	}
	return out
}

func (m rawMessage) i32(field uint32) (int32, bool) {
	vs := m[field]
	if len(vs) == 0 {
		return 0, false
	}
	return int32(vs[len(vs)-1].varint), true
}

func (m rawMessage) boolean(field uint32) bool {
	vs := m[field]
	if len(vs) == 0 {
		return false
	}
	return vs[len(vs)-1].varint != 0
}

func (m rawMessage) sub(field uint32) (rawMessage, bool) {
	vs := m[field]
	if len(vs) == 0 {
		return nil, false
	}
	return parseMessage(vs[len(vs)-1].bytes), true
}

func (m rawMessage) repeatedSub(field uint32) []rawMessage {
	vs := m[field]
	out := make([]rawMessage, 0, len(vs))
	for _, v := range vs {
		out = append(out, parseMessage(v.bytes))
	}
	return out
}
