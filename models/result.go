package models

// Result is the structured outcome of every operation the engine exposes.
// Operations never panic or leak errors across this boundary; failures come
// back as Success=false with a readable message.
type Result struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Application *Application        `json:"application,omitempty"`
	Command     *Command            `json:"command,omitempty"`
	Status      []ApplicationStatus `json:"status,omitempty"`
	Analyses    []FailureAnalysis   `json:"analyses,omitempty"`
}

// Ok builds a successful result.
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail builds a failed result.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
