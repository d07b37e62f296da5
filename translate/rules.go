package translate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/helmsman-run/helmsman/models"
)

// Deterministic keyword tier. Verbs choose the intent; replica counts, image
// references and application names are pulled out by pattern matching.
// Confidence starts low and grows with every field the rules could pin down.

var (
	replicasPattern = regexp.MustCompile(`(\d+)\s*(?:replicas?|instances?|copies)`)
	countToPattern  = regexp.MustCompile(`(?:to|by|=)\s*(\d+)\b`)
	imagePattern    = regexp.MustCompile(`\b([a-z0-9][a-z0-9._-]*(?:/[a-z0-9][a-z0-9._-]*)*:[a-zA-Z0-9._-]+)\b`)
	namedPattern    = regexp.MustCompile(`\b(?:named|called|as)\s+([a-z0-9][a-z0-9-]*)`)
	targetPattern   = regexp.MustCompile(`(?:scale|delete|remove)\s+(?:app(?:lication)?\s+)?([a-z][a-z0-9-]*)`)
)

// Bare image names recognized without an explicit tag.
var knownImagePattern = regexp.MustCompile(`\b(nginx|redis|postgres|mysql|mongo|httpd|rabbitmq|memcached|alpine|busybox|node|python)\b`)

func parseByRules(input string) models.Command {
	lower := strings.ToLower(input)

	cmd := models.Command{
		Intent:     detectIntent(lower),
		Confidence: 0.5,
		Reasoning:  "matched keyword rules",
	}
	if cmd.Intent == models.IntentHelp {
		cmd.Confidence = 0.2
		cmd.Reasoning = "no deployment verb recognized"
		return cmd
	}
	if cmd.Intent == models.IntentStatus {
		cmd.Confidence = 0.8
		return cmd
	}

	if n, ok := extractReplicas(lower, cmd.Intent); ok {
		cmd.Replicas = &n
		cmd.Confidence += 0.1
	}
	if image, ok := extractImage(lower); ok {
		cmd.Image = image
		cmd.Confidence += 0.1
	}
	if name, ok := extractAppName(lower, cmd.Intent); ok {
		cmd.AppName = name
		cmd.Confidence += 0.2
	}

	return cmd
}

func detectIntent(lower string) models.Intent {
	switch {
	case strings.Contains(lower, "deploy") || strings.Contains(lower, "create"):
		return models.IntentDeploy
	case strings.Contains(lower, "scale"):
		return models.IntentScale
	case strings.Contains(lower, "delete") || strings.Contains(lower, "remove"):
		return models.IntentDelete
	case strings.Contains(lower, "status") || strings.Contains(lower, "show"):
		return models.IntentStatus
	default:
		return models.IntentHelp
	}
}

func extractReplicas(lower string, intent models.Intent) (int, bool) {
	if m := replicasPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	// "scale web to 5" carries the count without a replicas keyword.
	if intent == models.IntentScale {
		if m := countToPattern.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			return n, err == nil
		}
	}
	return 0, false
}

func extractImage(lower string) (string, bool) {
	if m := imagePattern.FindStringSubmatch(lower); m != nil {
		return m[1], true
	}
	if m := knownImagePattern.FindStringSubmatch(lower); m != nil {
		return m[1], true
	}
	return "", false
}

func extractAppName(lower string, intent models.Intent) (string, bool) {
	if m := namedPattern.FindStringSubmatch(lower); m != nil {
		return m[1], true
	}
	// scale/delete name the app right after the verb.
	if intent == models.IntentScale || intent == models.IntentDelete {
		if m := targetPattern.FindStringSubmatch(lower); m != nil {
			return m[1], true
		}
	}
	return "", false
}
