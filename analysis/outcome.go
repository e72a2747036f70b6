package analysis

// OutcomeKind tells whether the decoder accepted a frame.
type OutcomeKind int

const (
	Decoded OutcomeKind = iota
	Rejected
)

func (k OutcomeKind) String() string {
	if k == Decoded {
		return "decoded"
	}
	return "rejected"
}

// Outcome is the decoder's verdict on one frame: Decoded with the number of
// interleaved samples it produced, or Rejected with the reason.
type Outcome struct {
	Kind    OutcomeKind
	Samples int
	Reason  error
}

// DecodedOutcome returns a Decoded verdict.
func DecodedOutcome(samples int) Outcome {
	return Outcome{Kind: Decoded, Samples: samples}
}

// RejectedOutcome returns a Rejected verdict.
func RejectedOutcome(reason error) Outcome {
	return Outcome{Kind: Rejected, Reason: reason}
}

// Valid reports whether the frame decoded.
func (o Outcome) Valid() bool {
	return o.Kind == Decoded
}
