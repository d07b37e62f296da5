// Package diagnose turns the logs of failed containers into root-cause
// classifications. Like the translator it is two-tiered: a language model
// first, an ordered deterministic rule table when the model is unavailable
// or its output is unusable.
package diagnose

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/helmsman-run/helmsman/llm"
	"github.com/helmsman-run/helmsman/models"
	"github.com/helmsman-run/helmsman/runtime"
)

type Classifier struct {
	rt     runtime.ContainerRuntime
	gen    llm.Generator
	logger *zap.Logger
}

// New builds a classifier. gen may be nil; the rule tier then handles
// everything.
func New(rt runtime.ContainerRuntime, gen llm.Generator, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{rt: rt, gen: gen, logger: logger}
}

// Classify analyzes one failed managed container. The container must exist
// and be in the failed state.
func (c *Classifier) Classify(ctx context.Context, containerID string) (models.FailureAnalysis, error) {
	container, err := c.findManaged(ctx, containerID)
	if err != nil {
		return models.FailureAnalysis{}, err
	}
	if container.Status != models.StatusFailed {
		return models.FailureAnalysis{}, fmt.Errorf("%w: container %s is %s", models.ErrInvalidState, containerID, container.Status)
	}

	logs, err := c.rt.Logs(ctx, containerID)
	if err != nil {
		return models.FailureAnalysis{}, fmt.Errorf("%w: fetch logs: %v", models.ErrRuntimeUnavailable, err)
	}

	return c.analyze(ctx, container, logs), nil
}

// analyze runs the two-tier strategy over already-fetched logs.
func (c *Classifier) analyze(ctx context.Context, container models.ManagedContainer, logs string) models.FailureAnalysis {
	if c.gen != nil {
		analysis, err := c.classifyWithModel(ctx, container, logs)
		if err == nil {
			analysis.Confidence = models.ClampConfidence(analysis.Confidence)
			return analysis
		}
		c.logger.Warn("model classification failed, using rule table",
			zap.String("container", container.ID), zap.Error(err))
	}

	matched := classifyByRules(logs)
	return models.FailureAnalysis{
		ContainerID:  container.ID,
		AppName:      container.AppName(),
		RootCause:    matched.rootCause,
		Explanation:  matched.explanation,
		SuggestedFix: matched.suggestedFix,
		Confidence:   models.ClampConfidence(matched.confidence),
		Logs:         logs,
	}
}

// ClassifyAll classifies every failed managed container. Individual failures
// are logged and skipped; partial results are still useful.
func (c *Classifier) ClassifyAll(ctx context.Context) ([]models.FailureAnalysis, error) {
	containers, err := c.rt.List(ctx, map[string]string{models.LabelManaged: models.LabelManagedValue})
	if err != nil {
		return nil, fmt.Errorf("%w: list containers: %v", models.ErrRuntimeUnavailable, err)
	}

	var analyses []models.FailureAnalysis
	for _, container := range containers {
		if container.Status != models.StatusFailed {
			continue
		}
		logs, err := c.rt.Logs(ctx, container.ID)
		if err != nil {
			c.logger.Warn("skipping container, logs unavailable",
				zap.String("container", container.ID), zap.Error(err))
			continue
		}
		analyses = append(analyses, c.analyze(ctx, container, logs))
	}
	return analyses, nil
}

// Logs returns the recent log tail of a managed container, whatever its
// state.
func (c *Classifier) Logs(ctx context.Context, containerID string) (string, error) {
	if _, err := c.findManaged(ctx, containerID); err != nil {
		return "", err
	}
	logs, err := c.rt.Logs(ctx, containerID)
	if err != nil {
		return "", fmt.Errorf("%w: fetch logs: %v", models.ErrRuntimeUnavailable, err)
	}
	return logs, nil
}

func (c *Classifier) findManaged(ctx context.Context, containerID string) (models.ManagedContainer, error) {
	containers, err := c.rt.List(ctx, map[string]string{models.LabelManaged: models.LabelManagedValue})
	if err != nil {
		return models.ManagedContainer{}, fmt.Errorf("%w: list containers: %v", models.ErrRuntimeUnavailable, err)
	}
	for _, container := range containers {
		if container.ID == containerID {
			return container, nil
		}
	}
	return models.ManagedContainer{}, fmt.Errorf("%w: %s", models.ErrContainerNotFound, containerID)
}
