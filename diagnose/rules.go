package diagnose

import "strings"

// rule is one deterministic log-pattern classification. Rules are evaluated
// in order; the first match wins, so position encodes priority.
type rule struct {
	matches      func(logs string) bool
	rootCause    string
	explanation  string
	suggestedFix string
	confidence   float64
}

func contains(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var fallbackRules = []rule{
	{
		matches: func(logs string) bool {
			return strings.Contains(logs, "pull") && contains(logs, "failed", "error")
		},
		rootCause:    "Image Pull Failure",
		explanation:  "The container image could not be pulled from its registry.",
		suggestedFix: "Check the image name and tag, and that the registry is reachable and credentials are valid.",
		confidence:   0.90,
	},
	{
		matches: func(logs string) bool {
			return strings.Contains(logs, "port") && contains(logs, "already in use", "bind")
		},
		rootCause:    "Port Conflict",
		explanation:  "The container tried to bind a port that is already taken on the host.",
		suggestedFix: "Change the container port mapping or stop the process holding the port.",
		confidence:   0.92,
	},
	{
		matches: func(logs string) bool {
			return contains(logs, "out of memory", "oom", "killed")
		},
		rootCause:    "Out of Memory",
		explanation:  "The container was killed after exceeding its available memory.",
		suggestedFix: "Raise the container memory limit or reduce the application's memory footprint.",
		confidence:   0.95,
	},
	{
		matches: func(logs string) bool {
			return strings.Contains(logs, "connection") && contains(logs, "refused", "timeout")
		},
		rootCause:    "Database Connection Failed",
		explanation:  "The application could not reach a backing service it depends on.",
		suggestedFix: "Verify the dependency is running and that its host, port and credentials are correct.",
		confidence:   0.85,
	},
	{
		matches: func(logs string) bool {
			return contains(logs, "permission denied", "access denied")
		},
		rootCause:    "Permission Denied",
		explanation:  "The container was refused access to a file, directory or device.",
		suggestedFix: "Fix the file ownership or run the container with the required permissions.",
		confidence:   0.88,
	},
	{
		matches: func(logs string) bool {
			return contains(logs, "not found", "no such file", "command not found")
		},
		rootCause:    "Missing Dependency",
		explanation:  "A file, binary or library the container expects does not exist in the image.",
		suggestedFix: "Add the missing dependency to the image or fix the path it is loaded from.",
		confidence:   0.82,
	},
	{
		matches: func(logs string) bool {
			return strings.Contains(logs, "config") && contains(logs, "invalid", "missing")
		},
		rootCause:    "Configuration Error",
		explanation:  "The application rejected its configuration at startup.",
		suggestedFix: "Review the configuration passed to the container, including environment variables.",
		confidence:   0.80,
	},
	{
		matches: func(logs string) bool {
			return contains(logs, "network", "dns")
		},
		rootCause:    "Network Issue",
		explanation:  "The container hit a network or DNS resolution problem.",
		suggestedFix: "Check the container network settings and DNS configuration.",
		confidence:   0.75,
	},
	{
		matches:      func(string) bool { return true },
		rootCause:    "Unknown Failure",
		explanation:  "The logs did not match any known failure pattern.",
		suggestedFix: "Inspect the full container logs manually.",
		confidence:   0.50,
	},
}

// classifyByRules runs the ordered rule table over the logs. The final
// catch-all guarantees a match.
func classifyByRules(logs string) rule {
	lower := strings.ToLower(logs)
	for _, r := range fallbackRules {
		if r.matches(lower) {
			return r
		}
	}
	// Unreachable; the last rule always matches.
	return fallbackRules[len(fallbackRules)-1]
}
