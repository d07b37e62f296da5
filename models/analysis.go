package models

// FailureAnalysis is the outcome of classifying one failed container.
type FailureAnalysis struct {
	ContainerID  string  `json:"containerId"`
	AppName      string  `json:"appName"`
	RootCause    string  `json:"rootCause"`
	Explanation  string  `json:"explanation"`
	SuggestedFix string  `json:"suggestedFix"`
	Confidence   float64 `json:"confidence"`
	Logs         string  `json:"logs,omitempty"`
}
