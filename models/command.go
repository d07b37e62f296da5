package models

type Intent string

const (
	IntentDeploy Intent = "deploy"
	IntentScale  Intent = "scale"
	IntentDelete Intent = "delete"
	IntentStatus Intent = "status"
	IntentHelp   Intent = "help"
)

// KnownIntent reports whether s is one of the canonical intents.
func KnownIntent(s string) bool {
	switch Intent(s) {
	case IntentDeploy, IntentScale, IntentDelete, IntentStatus, IntentHelp:
		return true
	}
	return false
}

// Command is a canonical intent produced by the translator and consumed once
// by the desired-state store.
type Command struct {
	Intent     Intent  `json:"intent"`
	AppName    string  `json:"appName,omitempty"`
	Image      string  `json:"image,omitempty"`
	Replicas   *int    `json:"replicas,omitempty"`
	Ports      []int   `json:"ports,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`

	// Autoscaling is set only on deploys coming from a manifest; the policy
	// is carried into the store, not enforced.
	Autoscaling *AutoscalingPolicy `json:"autoscaling,omitempty"`
}

// ClampConfidence forces a confidence score into [0, 1]. Upstream values are
// not trusted, whichever tier produced them.
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
