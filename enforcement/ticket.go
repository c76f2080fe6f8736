// Package enforcement defines the contract between the I/O data path and the
// enforcement objects that transform request payloads.
package enforcement

// Operation selects the forward or inverse transform of a mechanism.
type Operation int

// Supported operations.
const (
	Encode Operation = iota
	Decode
)

func (o Operation) String() string {
	switch o {
	case Encode:
		return "encode"
	case Decode:
		return "decode"
	default:
		return "invalid"
	}
}

// Valid returns true when the operation is one of Encode or Decode.
func (o Operation) Valid() bool {
	return o == Encode || o == Decode
}

// Ticket is a read-only view of an in-flight I/O request.
//
// The buffer is borrowed from the caller for the duration of a single
// Enforce call and must not be retained or modified.
type Ticket struct {
	op     Operation
	buffer []byte
	tweak  uint64
}

// NewTicket returns a ticket describing a request with the given direction, payload and tweak.
func NewTicket(op Operation, buffer []byte, tweak uint64) *Ticket {
	return &Ticket{op: op, buffer: buffer, tweak: tweak}
}

// Operation returns the direction of the transform.
func (t *Ticket) Operation() Operation { return t.op }

// Buffer returns the borrowed request payload.
func (t *Ticket) Buffer() []byte { return t.buffer }

// BufferSize returns the payload length, zero for an empty request.
func (t *Ticket) BufferSize() int { return len(t.buffer) }

// Tweak returns the per-request identifier consumed by encryption mechanisms,
// usually a logical block address or a sequence number.
func (t *Ticket) Tweak() uint64 { return t.tweak }
