package domain

type PlacementKind string

const (
	PlacementPopup  PlacementKind = "popup"
	PlacementBanner PlacementKind = "banner"
)

type Trigger string

const (
	TriggerImmediate  Trigger = "immediate"
	TriggerDelay      Trigger = "delay"
	TriggerExitIntent Trigger = "exit_intent"
	TriggerScroll     Trigger = "scroll"
)

// PlacementSource is the utm_source used when a placement auto-tags its target.
const PlacementSource = "website"

// Placement is a popup or banner. Only its link tagging is modelled here.
type Placement struct {
	ID           string        `json:"id"`
	Kind         PlacementKind `json:"kind"`
	Name         string        `json:"name"`
	Trigger      Trigger       `json:"trigger"`
	DelaySeconds int           `json:"delaySeconds"`
	TargetURL    string        `json:"targetUrl"`
	AutoUTM      bool          `json:"autoUtm"`
	IsActive     bool          `json:"isActive"`
}

func (p Placement) Key() string { return p.ID }

func (p Placement) Clone() Placement { return p }

func (p Placement) Validate() error {
	switch p.Kind {
	case PlacementPopup, PlacementBanner:
	default:
		return Invariant("unknown placement kind %q", p.Kind)
	}
	switch p.Trigger {
	case TriggerImmediate, TriggerExitIntent, TriggerScroll:
	case TriggerDelay:
		if p.DelaySeconds < 0 {
			return Invariant("placement delay %d is negative", p.DelaySeconds)
		}
	default:
		return Invariant("unknown placement trigger %q", p.Trigger)
	}
	if p.AutoUTM && Slugify(p.Name) == "" {
		return Invariant("auto-tagged placement needs a name")
	}
	return nil
}

// ResolvedURL is the target URL, UTM-tagged when AutoUTM is set.
func (p Placement) ResolvedURL() (string, error) {
	if !p.AutoUTM {
		return p.TargetURL, nil
	}
	return BuildTrackingLink(p.TargetURL, TrackingParams{
		Source:   PlacementSource,
		Medium:   string(p.Kind),
		Campaign: p.Name,
	})
}
