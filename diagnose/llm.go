package diagnose

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/helmsman-run/helmsman/llm"
	"github.com/helmsman-run/helmsman/models"
)

const classifyPromptTemplate = `A managed container has failed. Classify the root cause from its metadata and logs.

Container name: %s
Image: %s
Application: %s

Logs:
%s

Respond with a single JSON object and nothing else:
{
  "rootCause": "<short label for the failure category>",
  "explanation": "<one or two sentences on what went wrong>",
  "suggestedFix": "<one actionable suggestion>",
  "confidence": <0.0-1.0>
}`

type modelAnalysis struct {
	RootCause    string  `json:"rootCause"`
	Explanation  string  `json:"explanation"`
	SuggestedFix string  `json:"suggestedFix"`
	Confidence   float64 `json:"confidence"`
}

func (c *Classifier) classifyWithModel(ctx context.Context, container models.ManagedContainer, logs string) (models.FailureAnalysis, error) {
	prompt := fmt.Sprintf(classifyPromptTemplate, container.Name, container.Image, container.AppName(), logs)
	raw, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return models.FailureAnalysis{}, fmt.Errorf("generate: %w", err)
	}

	obj, ok := llm.ExtractJSON(raw)
	if !ok {
		return models.FailureAnalysis{}, fmt.Errorf("no JSON object in model output")
	}

	var parsed modelAnalysis
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return models.FailureAnalysis{}, fmt.Errorf("decode model output: %w", err)
	}
	if parsed.RootCause == "" {
		return models.FailureAnalysis{}, fmt.Errorf("%w: model produced no root cause", models.ErrClassificationFailure)
	}

	return models.FailureAnalysis{
		ContainerID:  container.ID,
		AppName:      container.AppName(),
		RootCause:    parsed.RootCause,
		Explanation:  parsed.Explanation,
		SuggestedFix: parsed.SuggestedFix,
		Confidence:   parsed.Confidence,
		Logs:         logs,
	}, nil
}
