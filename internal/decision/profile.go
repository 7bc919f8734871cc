package decision

// Profile is a named risk configuration. The three presets are policy,
// selected by the user and persisted as a bare name.
type Profile struct {
	Name       string
	VolMax     float64 // maximum tolerated ATR/price ratio
	TargetMult float64 // > 1
	StopMult   float64 // < 1
	EntryMult  float64 // at or slightly below the reference
}

const (
	ProfileAggressive   = "Aggressive"
	ProfileNeutral      = "Neutral"
	ProfileConservative = "Conservative"
)

var profiles = map[string]Profile{
	ProfileAggressive:   {Name: ProfileAggressive, VolMax: 0.08, TargetMult: 1.10, StopMult: 0.92, EntryMult: 0.990},
	ProfileNeutral:      {Name: ProfileNeutral, VolMax: 0.05, TargetMult: 1.07, StopMult: 0.95, EntryMult: 0.990},
	ProfileConservative: {Name: ProfileConservative, VolMax: 0.03, TargetMult: 1.05, StopMult: 0.97, EntryMult: 0.995},
}

// GetProfile resolves a profile by name, falling back to Neutral for
// anything unrecognized (including the empty string).
func GetProfile(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[ProfileNeutral]
}

// ProfileNames lists the available presets in risk order.
func ProfileNames() []string {
	return []string{ProfileConservative, ProfileNeutral, ProfileAggressive}
}
