// Package engine composes the store, translator, classifier and reconciler
// behind the operation surface callers use. Every operation returns a
// structured Result; no error crosses this boundary.
package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/helmsman-run/helmsman/controller"
	"github.com/helmsman-run/helmsman/diagnose"
	"github.com/helmsman-run/helmsman/manifest"
	"github.com/helmsman-run/helmsman/models"
	"github.com/helmsman-run/helmsman/store"
	"github.com/helmsman-run/helmsman/translate"
)

type Engine struct {
	store      *store.AppStore
	translator *translate.Translator
	classifier *diagnose.Classifier
	reconciler *controller.Reconciler
	logger     *zap.Logger
}

func New(s *store.AppStore, tr *translate.Translator, cl *diagnose.Classifier, rec *controller.Reconciler, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      s,
		translator: tr,
		classifier: cl,
		reconciler: rec,
		logger:     logger,
	}
}

// Store exposes the desired-state store for read-only callers.
func (e *Engine) Store() *store.AppStore {
	return e.store
}

// Deploy registers the manifest's application and bulk-creates its replicas.
func (e *Engine) Deploy(ctx context.Context, manifestPath string) models.Result {
	app, res := e.applyManifest(manifestPath)
	if !res.Success {
		return res
	}

	if err := e.reconciler.DeployFromSpec(ctx, app); err != nil {
		return models.Fail(fmt.Sprintf("Registered '%s' but deployment failed: %v", app.Name, err))
	}
	out := models.Ok(fmt.Sprintf("Deployed '%s': %d replica(s) of %s", app.Name, app.Replicas, app.Image))
	out.Application = &app
	return out
}

// Reconcile registers the manifest's application and runs one corrective
// cycle against it.
func (e *Engine) Reconcile(ctx context.Context, manifestPath string) models.Result {
	app, res := e.applyManifest(manifestPath)
	if !res.Success {
		return res
	}

	cycle, err := e.reconciler.Reconcile(ctx, app.Name)
	if err != nil {
		return models.Fail(fmt.Sprintf("Reconciliation of '%s' failed: %v", app.Name, err))
	}
	out := models.Ok(fmt.Sprintf("Reconciled '%s': desired=%d observed=%d created=%d removed=%d",
		cycle.App, cycle.Desired, cycle.Observed, cycle.Created, cycle.Removed))
	out.Application = &app
	return out
}

// Status reports all managed containers grouped by application, with desired
// counts cross-referenced from the store.
func (e *Engine) Status(ctx context.Context) models.Result {
	status, err := e.reconciler.Status(ctx)
	if err != nil {
		return models.Fail(fmt.Sprintf("Status unavailable: %v", err))
	}

	var b strings.Builder
	if len(status) == 0 {
		b.WriteString("No managed containers running.")
	} else {
		for _, group := range status {
			desired := "?"
			if app, ok := e.store.GetApplication(group.Name); ok {
				desired = fmt.Sprintf("%d", app.Replicas)
			}
			fmt.Fprintf(&b, "%s: %d/%s replica(s), image %s\n", group.Name, group.Replicas, desired, group.Image)
		}
	}
	out := models.Ok(strings.TrimRight(b.String(), "\n"))
	out.Status = status
	return out
}

// Start registers the manifest's application and launches the periodic
// reconciliation loop for it.
func (e *Engine) Start(ctx context.Context, manifestPath string) models.Result {
	app, res := e.applyManifest(manifestPath)
	if !res.Success {
		return res
	}

	if err := e.reconciler.Start(app.Name); err != nil {
		return models.Fail(fmt.Sprintf("Could not start reconciliation for '%s': %v", app.Name, err))
	}
	out := models.Ok(fmt.Sprintf("Reconciliation loop started for '%s'", app.Name))
	out.Application = &app
	return out
}

// Stop halts the periodic reconciliation loop.
func (e *Engine) Stop() models.Result {
	e.reconciler.Stop()
	return models.Ok("Reconciliation loop stopped")
}

// Scale updates the application's desired replica count and converges the
// runtime to it.
func (e *Engine) Scale(ctx context.Context, name string, replicas int) models.Result {
	applied := e.store.ApplyCommand(models.Command{
		Intent:     models.IntentScale,
		AppName:    name,
		Replicas:   &replicas,
		Confidence: 1,
	})
	if !applied.Success {
		return models.Fail(applied.Message)
	}

	cycle, err := e.reconciler.Reconcile(ctx, name)
	if err != nil {
		return models.Fail(fmt.Sprintf("%s but reconciliation failed: %v", applied.Message, err))
	}
	msg := applied.Message
	if cycle.Created > 0 || cycle.Removed > 0 {
		msg += fmt.Sprintf(" (created %d, removed %d container(s))", cycle.Created, cycle.Removed)
	}
	out := models.Ok(msg)
	out.Application = applied.Application
	return out
}

// DeleteApplication removes the application's desired state and then its
// containers. The order matters: with the desired state gone first, a
// reconciliation tick landing mid-delete cannot recreate containers that
// would outlive the application.
func (e *Engine) DeleteApplication(ctx context.Context, name string) models.Result {
	res := e.store.ApplyCommand(models.Command{Intent: models.IntentDelete, AppName: name, Confidence: 1})
	if !res.Success {
		return models.Fail(res.Message)
	}
	if err := e.reconciler.DeleteApplication(ctx, name); err != nil {
		return models.Fail(fmt.Sprintf("Removed '%s' from desired state but container cleanup failed: %v", name, err))
	}
	return models.Ok(fmt.Sprintf("Deleted application '%s' and its containers", name))
}

// TranslateAndApply parses free-form input into a canonical command and, when
// confident enough, applies it and converges the runtime to the new desired
// state. Low-confidence commands come back as a clarification request.
func (e *Engine) TranslateAndApply(ctx context.Context, input string) models.Result {
	cmd := e.translator.Translate(ctx, input)
	out := models.Result{Command: &cmd}

	if cmd.Intent == models.IntentHelp || cmd.Confidence < translate.ClarifyThreshold {
		out.Message = e.translator.Explain(cmd)
		return out
	}

	applied := e.store.ApplyCommand(cmd)
	if !applied.Success {
		out.Message = applied.Message
		return out
	}
	out.Success = true
	out.Message = applied.Message
	out.Application = applied.Application

	// Converge the runtime for mutating intents so the user sees the effect
	// immediately instead of waiting for the next tick.
	switch cmd.Intent {
	case models.IntentDeploy, models.IntentScale:
		if cycle, err := e.reconciler.Reconcile(ctx, cmd.AppName); err != nil {
			out.Message += fmt.Sprintf(" (reconciliation pending: %v)", err)
		} else if cycle.Created > 0 || cycle.Removed > 0 {
			out.Message += fmt.Sprintf(" (created %d, removed %d container(s))", cycle.Created, cycle.Removed)
		}
	case models.IntentDelete:
		if err := e.reconciler.DeleteApplication(ctx, cmd.AppName); err != nil {
			out.Message += fmt.Sprintf(" (container cleanup failed: %v)", err)
		}
	}
	return out
}

// Classify analyzes one failed container.
func (e *Engine) Classify(ctx context.Context, containerID string) models.Result {
	analysis, err := e.classifier.Classify(ctx, containerID)
	if err != nil {
		return models.Fail(fmt.Sprintf("Could not classify '%s': %v", containerID, err))
	}
	out := models.Ok(formatAnalysis(analysis))
	out.Analyses = []models.FailureAnalysis{analysis}
	return out
}

// ClassifyAll analyzes every failed managed container.
func (e *Engine) ClassifyAll(ctx context.Context) models.Result {
	analyses, err := e.classifier.ClassifyAll(ctx)
	if err != nil {
		return models.Fail(fmt.Sprintf("Could not classify failures: %v", err))
	}
	if len(analyses) == 0 {
		return models.Ok(diagnose.AllHealthyMessage)
	}

	var b strings.Builder
	for _, a := range analyses {
		b.WriteString(formatAnalysis(a))
		b.WriteString("\n")
	}
	out := models.Ok(strings.TrimRight(b.String(), "\n"))
	out.Analyses = analyses
	return out
}

// Logs returns the recent log tail of one managed container.
func (e *Engine) Logs(ctx context.Context, containerID string) models.Result {
	logs, err := e.classifier.Logs(ctx, containerID)
	if err != nil {
		return models.Fail(fmt.Sprintf("Could not fetch logs of '%s': %v", containerID, err))
	}
	return models.Ok(logs)
}

// Report aggregates all current failures into a prioritized summary.
func (e *Engine) Report(ctx context.Context) models.Result {
	report, err := e.classifier.Report(ctx)
	if err != nil {
		return models.Fail(fmt.Sprintf("Could not build failure report: %v", err))
	}
	out := models.Ok(report.Summary())
	out.Analyses = append(append(append([]models.FailureAnalysis{}, report.HighPriority...), report.MediumPriority...), report.LowPriority...)
	return out
}

// AutoHeal classifies failed containers (optionally only those of one
// application) and removes them so the next reconciliation cycle replaces
// them.
func (e *Engine) AutoHeal(ctx context.Context, appName string) models.Result {
	analyses, err := e.classifier.ClassifyAll(ctx)
	if err != nil {
		return models.Fail(fmt.Sprintf("Auto-heal aborted: %v", err))
	}

	var healed, failed int
	var notes []string
	for _, a := range analyses {
		if appName != "" && a.AppName != appName {
			continue
		}
		if err := e.reconciler.Heal(ctx, a); err != nil {
			failed++
			e.logger.Warn("heal failed", zap.String("container", a.ContainerID), zap.Error(err))
			continue
		}
		healed++
		notes = append(notes, fmt.Sprintf("%s (%s)", a.AppName, a.RootCause))
	}

	if healed == 0 && failed == 0 {
		return models.Ok("Nothing to heal, no failed containers found.")
	}
	msg := fmt.Sprintf("Healed %d container(s): %s", healed, strings.Join(notes, ", "))
	if failed > 0 {
		msg += fmt.Sprintf(" (%d could not be removed)", failed)
	}
	out := models.Result{Success: failed == 0, Message: msg, Analyses: analyses}
	return out
}

// applyManifest loads a manifest and upserts its application into the
// desired-state store.
func (e *Engine) applyManifest(manifestPath string) (models.Application, models.Result) {
	app, err := manifest.Load(manifestPath)
	if err != nil {
		return models.Application{}, models.Fail(fmt.Sprintf("Invalid manifest %s: %v", manifestPath, err))
	}

	replicas := app.Replicas
	res := e.store.ApplyCommand(models.Command{
		Intent:      models.IntentDeploy,
		AppName:     app.Name,
		Image:       app.Image,
		Replicas:    &replicas,
		Ports:       app.Ports,
		Confidence:  1,
		Reasoning:   "applied from manifest",
		Autoscaling: app.Autoscaling,
	})
	if !res.Success {
		return models.Application{}, models.Fail(res.Message)
	}
	return app, models.Ok("")
}

func formatAnalysis(a models.FailureAnalysis) string {
	return fmt.Sprintf("[%s] %s (confidence %.0f%%): %s Fix: %s",
		a.AppName, a.RootCause, a.Confidence*100, a.Explanation, a.SuggestedFix)
}
