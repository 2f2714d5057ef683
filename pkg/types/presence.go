package types

// Presence is the answer of a probe. A probe that cannot decide returns an
// error instead; callers must never read an error as PresenceAbsent.
type Presence int

const (
	PresenceAbsent Presence = iota
	PresencePresent
)

func (p Presence) String() string {
	if p == PresencePresent {
		return "present"
	}
	return "absent"
}

// PresenceOf converts a boolean answer into a Presence
func PresenceOf(present bool) Presence {
	if present {
		return PresencePresent
	}
	return PresenceAbsent
}
