package entity

// ChallengePurpose binds a challenge to the operation it unlocks, so a
// send code can never authorize a decode and vice versa.
type ChallengePurpose int16

const (
	// ChallengePurposeUnknown is mean purpose is not known / not set.
	ChallengePurposeUnknown ChallengePurpose = 0

	// ChallengePurposeSend unlocks embedding a payload into a cover image.
	ChallengePurposeSend ChallengePurpose = 1

	// ChallengePurposeDecode unlocks extracting a payload from a stego image.
	ChallengePurposeDecode ChallengePurpose = 2
)

func (p ChallengePurpose) String() string {
	switch p {
	case ChallengePurposeSend:
		return "Send"
	case ChallengePurposeDecode:
		return "Decode"
	default:
		return "Unknown"
	}
}

func (p ChallengePurpose) IsUnknown() bool {
	switch p {
	case ChallengePurposeSend, ChallengePurposeDecode:
		return false
	default:
		return true
	}
}

// ParseChallengePurpose maps the wire representation to a purpose.
func ParseChallengePurpose(s string) ChallengePurpose {
	switch s {
	case "send":
		return ChallengePurposeSend
	case "decode":
		return ChallengePurposeDecode
	default:
		return ChallengePurposeUnknown
	}
}
