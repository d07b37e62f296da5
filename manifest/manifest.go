// Package manifest converts Application specs to and from their YAML
// document form.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/helmsman-run/helmsman/models"
)

const (
	APIVersion = "helmsman.run/v1"
	Kind       = "Application"

	defaultProtocol = "TCP"
)

// Document is the on-disk shape of an Application manifest.
type Document struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

type Metadata struct {
	Name string `yaml:"name"`
}

type Spec struct {
	Replicas    *int               `yaml:"replicas,omitempty"`
	Container   Container          `yaml:"container"`
	Autoscaling *AutoscalingPolicy `yaml:"autoscaling,omitempty"`
}

type Container struct {
	Image string `yaml:"image"`
	Ports []Port `yaml:"ports,omitempty"`
}

type Port struct {
	ContainerPort int    `yaml:"containerPort"`
	Protocol      string `yaml:"protocol,omitempty"`
}

type AutoscalingPolicy struct {
	Enabled              bool `yaml:"enabled"`
	MinReplicas          int  `yaml:"minReplicas"`
	MaxReplicas          int  `yaml:"maxReplicas"`
	TargetCPUUtilization int  `yaml:"targetCpuUtilization"`
}

// Parse decodes manifest text into an Application. Kind, metadata.name and
// spec.container.image are mandatory; replicas default to 1.
func Parse(data []byte) (models.Application, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.Application{}, fmt.Errorf("%w: %v", models.ErrManifestInvalid, err)
	}
	if doc.Kind != Kind {
		return models.Application{}, fmt.Errorf("%w: kind must be %q, got %q", models.ErrManifestInvalid, Kind, doc.Kind)
	}
	if strings.TrimSpace(doc.Metadata.Name) == "" {
		return models.Application{}, fmt.Errorf("%w: metadata.name is required", models.ErrManifestInvalid)
	}
	if strings.TrimSpace(doc.Spec.Container.Image) == "" {
		return models.Application{}, fmt.Errorf("%w: spec.container.image is required", models.ErrManifestInvalid)
	}

	replicas := 1
	if doc.Spec.Replicas != nil {
		if *doc.Spec.Replicas < 0 {
			return models.Application{}, fmt.Errorf("%w: spec.replicas must not be negative", models.ErrManifestInvalid)
		}
		replicas = *doc.Spec.Replicas
	}

	app := models.Application{
		Name:     doc.Metadata.Name,
		Image:    doc.Spec.Container.Image,
		Replicas: replicas,
	}
	for _, p := range doc.Spec.Container.Ports {
		app.Ports = append(app.Ports, p.ContainerPort)
	}
	if doc.Spec.Autoscaling != nil {
		app.Autoscaling = &models.AutoscalingPolicy{
			Enabled:              doc.Spec.Autoscaling.Enabled,
			MinReplicas:          doc.Spec.Autoscaling.MinReplicas,
			MaxReplicas:          doc.Spec.Autoscaling.MaxReplicas,
			TargetCPUUtilization: doc.Spec.Autoscaling.TargetCPUUtilization,
		}
	}
	return app, nil
}

// Load reads and parses a manifest file.
func Load(path string) (models.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Application{}, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Render produces the YAML document for an Application. Parse(Render(app))
// preserves name, image, replicas and ports exactly.
func Render(app models.Application) (string, error) {
	replicas := app.Replicas
	doc := Document{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata:   Metadata{Name: app.Name},
		Spec: Spec{
			Replicas:  &replicas,
			Container: Container{Image: app.Image},
		},
	}
	for _, port := range app.Ports {
		doc.Spec.Container.Ports = append(doc.Spec.Container.Ports, Port{
			ContainerPort: port,
			Protocol:      defaultProtocol,
		})
	}
	if app.Autoscaling != nil {
		doc.Spec.Autoscaling = &AutoscalingPolicy{
			Enabled:              app.Autoscaling.Enabled,
			MinReplicas:          app.Autoscaling.MinReplicas,
			MaxReplicas:          app.Autoscaling.MaxReplicas,
			TargetCPUUtilization: app.Autoscaling.TargetCPUUtilization,
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("render manifest: %w", err)
	}
	return string(out), nil
}
