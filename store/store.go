// Package store owns the desired state: the mapping from application name to
// its spec. It is mutated only through canonical commands and never talks to
// the container runtime.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/helmsman-run/helmsman/manifest"
	"github.com/helmsman-run/helmsman/models"
)

// ApplyResult is the structured outcome of applying one canonical command.
type ApplyResult struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Application *models.Application `json:"application,omitempty"`
}

// AppStore holds the desired state for all applications. Mutations are
// serialized by an internal mutex; an optional Persistence mirrors them so
// desired state survives a restart.
type AppStore struct {
	mu      sync.Mutex
	apps    map[string]models.Application
	persist Persistence
	logger  *zap.Logger
}

type Option func(*AppStore)

// WithPersistence mirrors every mutation into p and allows Restore to hydrate
// the store at startup. Persistence failures are logged, never fatal: the
// in-memory map stays authoritative.
func WithPersistence(p Persistence) Option {
	return func(s *AppStore) { s.persist = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *AppStore) { s.logger = logger }
}

func New(opts ...Option) *AppStore {
	s := &AppStore{
		apps:   make(map[string]models.Application),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyCommand applies one canonical command to the desired state. It never
// returns an error; failures are reported in the result message.
func (s *AppStore) ApplyCommand(cmd models.Command) ApplyResult {
	switch cmd.Intent {
	case models.IntentDeploy:
		return s.applyDeploy(cmd)
	case models.IntentScale:
		return s.applyScale(cmd)
	case models.IntentDelete:
		return s.applyDelete(cmd)
	case models.IntentStatus:
		return ApplyResult{Success: true, Message: s.FormatStatus()}
	case models.IntentHelp:
		return ApplyResult{Success: true, Message: helpText}
	default:
		return ApplyResult{Message: fmt.Sprintf("unknown intent %q", cmd.Intent)}
	}
}

func (s *AppStore) applyDeploy(cmd models.Command) ApplyResult {
	if cmd.AppName == "" {
		return ApplyResult{Message: "deploy needs an application name"}
	}
	if cmd.Image == "" {
		return ApplyResult{Message: fmt.Sprintf("deploy of '%s' needs a container image", cmd.AppName)}
	}

	replicas := 1
	if cmd.Replicas != nil {
		if *cmd.Replicas < 0 {
			return ApplyResult{Message: fmt.Sprintf("replica count must not be negative, got %d", *cmd.Replicas)}
		}
		replicas = *cmd.Replicas
	}

	app := models.Application{
		Name:        cmd.AppName,
		Image:       cmd.Image,
		Replicas:    replicas,
		Ports:       append([]int(nil), cmd.Ports...),
		Autoscaling: cmd.Autoscaling,
	}

	s.mu.Lock()
	s.apps[app.Name] = app
	s.mu.Unlock()
	s.persistSave(app)

	return ApplyResult{
		Success:     true,
		Message:     fmt.Sprintf("Deployed '%s' with image '%s' (%d replica(s))", app.Name, app.Image, app.Replicas),
		Application: &app,
	}
}

func (s *AppStore) applyScale(cmd models.Command) ApplyResult {
	if cmd.AppName == "" {
		return ApplyResult{Message: "scale needs an application name"}
	}
	if cmd.Replicas == nil {
		return ApplyResult{Message: fmt.Sprintf("scale of '%s' needs a target replica count", cmd.AppName)}
	}
	if *cmd.Replicas < 0 {
		return ApplyResult{Message: fmt.Sprintf("replica count must not be negative, got %d", *cmd.Replicas)}
	}

	s.mu.Lock()
	app, ok := s.apps[cmd.AppName]
	if !ok {
		s.mu.Unlock()
		return ApplyResult{Message: fmt.Sprintf("%v: '%s'", models.ErrApplicationNotFound, cmd.AppName)}
	}
	previous := app.Replicas
	app.Replicas = *cmd.Replicas
	s.apps[cmd.AppName] = app
	s.mu.Unlock()
	s.persistSave(app)

	var message string
	switch {
	case app.Replicas > previous:
		message = fmt.Sprintf("Scaled '%s' up from %d to %d replica(s)", app.Name, previous, app.Replicas)
	case app.Replicas < previous:
		message = fmt.Sprintf("Scaled '%s' down from %d to %d replica(s)", app.Name, previous, app.Replicas)
	default:
		message = fmt.Sprintf("'%s' already at %d replica(s), nothing to change", app.Name, previous)
	}
	return ApplyResult{
		Success:     true,
		Message:     message,
		Application: &app,
	}
}

func (s *AppStore) applyDelete(cmd models.Command) ApplyResult {
	if cmd.AppName == "" {
		return ApplyResult{Message: "delete needs an application name"}
	}

	s.mu.Lock()
	if _, ok := s.apps[cmd.AppName]; !ok {
		s.mu.Unlock()
		return ApplyResult{Message: fmt.Sprintf("%v: '%s'", models.ErrApplicationNotFound, cmd.AppName)}
	}
	delete(s.apps, cmd.AppName)
	s.mu.Unlock()
	s.persistDelete(cmd.AppName)

	return ApplyResult{Success: true, Message: fmt.Sprintf("Deleted application '%s'", cmd.AppName)}
}

// GetApplication returns the desired spec for name.
func (s *AppStore) GetApplication(name string) (models.Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[name]
	return app, ok
}

// HasApplication reports whether name is deployed.
func (s *AppStore) HasApplication(name string) bool {
	_, ok := s.GetApplication(name)
	return ok
}

// ListApplications returns all desired specs sorted by name.
func (s *AppStore) ListApplications() []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := make([]models.Application, 0, len(s.apps))
	for _, app := range s.apps {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	return apps
}

// ToManifest renders the named application's desired state as manifest text.
func (s *AppStore) ToManifest(name string) (string, error) {
	app, ok := s.GetApplication(name)
	if !ok {
		return "", fmt.Errorf("%w: '%s'", models.ErrApplicationNotFound, name)
	}
	return manifest.Render(app)
}

// FormatStatus enumerates the desired state as user-readable text.
func (s *AppStore) FormatStatus() string {
	apps := s.ListApplications()
	if len(apps) == 0 {
		return "No applications deployed."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Desired state: %d application(s)\n", len(apps))
	for _, app := range apps {
		fmt.Fprintf(&b, "  - %s: image=%s replicas=%d", app.Name, app.Image, app.Replicas)
		if len(app.Ports) > 0 {
			fmt.Fprintf(&b, " ports=%v", app.Ports)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Restore hydrates the store from its persistence layer. Without one it is a
// no-op.
func (s *AppStore) Restore(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	apps, err := s.persist.LoadApplications(ctx)
	if err != nil {
		return fmt.Errorf("restore desired state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, app := range apps {
		s.apps[app.Name] = app
	}
	return nil
}

func (s *AppStore) persistSave(app models.Application) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveApplication(context.Background(), app); err != nil {
		s.logger.Warn("failed to persist application", zap.String("app", app.Name), zap.Error(err))
	}
}

func (s *AppStore) persistDelete(name string) {
	if s.persist == nil {
		return
	}
	if err := s.persist.DeleteApplication(context.Background(), name); err != nil {
		s.logger.Warn("failed to remove persisted application", zap.String("app", name), zap.Error(err))
	}
}

const helpText = `I can manage containerized applications for you. Try:
  - "deploy nginx:latest as web with 2 replicas"
  - "scale web to 5"
  - "delete web"
  - "show status"`
