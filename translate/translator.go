// Package translate turns free-form input into canonical commands. A language
// model is the primary strategy; a deterministic keyword tier covers model
// absence, model failure and unusable model output. Translate never fails:
// the worst outcome is a low-confidence help command.
package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/helmsman-run/helmsman/llm"
	"github.com/helmsman-run/helmsman/models"
)

// ClarifyThreshold is the confidence below which a parsed command should be
// confirmed with the user instead of applied.
const ClarifyThreshold = 0.7

type Translator struct {
	gen    llm.Generator
	logger *zap.Logger
}

// New builds a translator. gen may be nil; the keyword tier then handles
// everything.
func New(gen llm.Generator, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{gen: gen, logger: logger}
}

// Translate parses input into a canonical command.
func (t *Translator) Translate(ctx context.Context, input string) models.Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return finalize(models.Command{
			Intent:     models.IntentHelp,
			Confidence: 0,
			Reasoning:  "empty input",
		})
	}

	if t.gen != nil {
		cmd, err := t.translateWithModel(ctx, input)
		if err == nil {
			return finalize(cmd)
		}
		t.logger.Warn("model translation failed, using keyword rules", zap.Error(err))
	}
	return finalize(parseByRules(input))
}

// finalize applies post-processing common to both tiers: confidence clamping
// and name synthesis for image-only deploys.
func finalize(cmd models.Command) models.Command {
	cmd.Confidence = models.ClampConfidence(cmd.Confidence)

	if cmd.Intent == models.IntentDeploy && cmd.Image != "" && cmd.AppName == "" {
		cmd.AppName = SynthesizeAppName(cmd.Image)
		note := fmt.Sprintf("application name '%s' synthesized from image '%s'", cmd.AppName, cmd.Image)
		if cmd.Reasoning != "" {
			cmd.Reasoning += "; " + note
		} else {
			cmd.Reasoning = note
		}
	}
	return cmd
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// SynthesizeAppName derives a deterministic application name from an image
// reference: lowercase, alphanumerics only, fixed suffix. It depends on
// nothing but its argument.
func SynthesizeAppName(image string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(image), "") + "-app"
}

// Explain restates a parsed command in natural language, asking for
// confirmation when confidence is below ClarifyThreshold.
func (t *Translator) Explain(cmd models.Command) string {
	var text string
	switch cmd.Intent {
	case models.IntentDeploy:
		replicas := 1
		if cmd.Replicas != nil {
			replicas = *cmd.Replicas
		}
		text = fmt.Sprintf("I will deploy %d replica(s) of '%s' as application '%s'.", replicas, cmd.Image, cmd.AppName)
	case models.IntentScale:
		if cmd.Replicas != nil {
			text = fmt.Sprintf("I will scale application '%s' to %d replica(s).", cmd.AppName, *cmd.Replicas)
		} else {
			text = fmt.Sprintf("I will scale application '%s', but I could not tell to how many replicas.", cmd.AppName)
		}
	case models.IntentDelete:
		text = fmt.Sprintf("I will delete application '%s' and stop its containers.", cmd.AppName)
	case models.IntentStatus:
		text = "I will show the current state of all managed applications."
	default:
		text = "I could not map that input to a deployment action."
	}

	if cmd.Confidence < ClarifyThreshold {
		text += " I am not confident I understood correctly, could you rephrase or confirm?"
	}
	return text
}
