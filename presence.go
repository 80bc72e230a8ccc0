package argskema

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field was supplied on the command line.
	PresenceDefaultApplied                      // Static default (or false for a flag) was applied.
	PresenceFactoryInvoked                      // Default factory was invoked.
)

// PresenceMap maps JSON Pointers (/<field>) to Presence flags. The root
// pointer "/" is always marked seen.
type PresenceMap map[string]Presence

// Has reports whether every bit of flag is set for field.
func (pm PresenceMap) Has(field string, flag Presence) bool {
	return pm[pointer(field)]&flag == flag
}

// Decoded carries the parsed value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}
