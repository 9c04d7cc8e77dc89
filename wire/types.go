package wire

// ===== WIRE FORMAT TYPES =====

// WireType represents the protobuf-compatible wire types used on the wire
type WireType int32

const (
	WireVarint  WireType = 0 // integer, char, kind
	WireFixed64 WireType = 1 // float
	WireBytes   WireType = 2 // payload, frames
	WireFixed32 WireType = 5 // skipped only
)

// FieldNumber represents a field number. Payload fields are numbered from 1
// in schema order.
type FieldNumber int32

// Envelope field numbers
const (
	EnvelopeKind    FieldNumber = 1
	EnvelopePayload FieldNumber = 2
)

// MaxFieldNumber is the largest field number protobuf allows.
const MaxFieldNumber = 1<<29 - 1

// Tag represents a field tag (field number + wire type)
type Tag uint64

// MakeTag creates a tag from field number and wire type
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType))
}

// ParseTag parses a tag into field number and wire type. The field number is
// only meaningful when ValidTag reports true.
func ParseTag(tag Tag) (FieldNumber, WireType) {
	return FieldNumber(tag >> 3), WireType(tag & 0x7)
}

// ValidTag reports whether tag carries a field number in 1..MaxFieldNumber.
func ValidTag(tag Tag) bool {
	n := uint64(tag >> 3)
	return n >= 1 && n <= MaxFieldNumber
}

// Options controls optional decoder behaviors. The zero value skips unknown
// payload fields, which keeps old readers working against newer writers.
type Options struct {
	// Strict rejects payload fields whose number has no descriptor and
	// envelope fields other than kind and payload.
	Strict bool
}
