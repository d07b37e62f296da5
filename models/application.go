package models

// Application is the desired state for one named workload: which image to run
// and how many replicas of it should exist.
type Application struct {
	Name        string             `json:"name" yaml:"name"`
	Image       string             `json:"image" yaml:"image"`
	Replicas    int                `json:"replicas" yaml:"replicas"`
	Ports       []int              `json:"ports,omitempty" yaml:"ports,omitempty"`
	Autoscaling *AutoscalingPolicy `json:"autoscaling,omitempty" yaml:"autoscaling,omitempty"`
}

// AutoscalingPolicy is carried through manifests for forward compatibility.
// The reconciler does not enforce it.
type AutoscalingPolicy struct {
	Enabled              bool `json:"enabled" yaml:"enabled"`
	MinReplicas          int  `json:"minReplicas" yaml:"minReplicas"`
	MaxReplicas          int  `json:"maxReplicas" yaml:"maxReplicas"`
	TargetCPUUtilization int  `json:"targetCpuUtilization" yaml:"targetCpuUtilization"`
}

// ApplicationStatus is one observed group in a status report: every managed
// container owned by one application.
type ApplicationStatus struct {
	Name       string             `json:"name"`
	Image      string             `json:"image"`
	Replicas   int                `json:"replicas"`
	Containers []ManagedContainer `json:"containers,omitempty"`
}
