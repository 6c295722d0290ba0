// Package qexec runs backend query tools, either on this host or inside a container or pod that
// has the scheduler client installed.
package qexec

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind selects where commands run.
type Kind string

const (
	KindLocal      Kind = "local"
	KindDocker     Kind = "docker"
	KindKubernetes Kind = "kubernetes"
)

// ErrNotFound is returned by LookPath when the executable is not on the search path.
var ErrNotFound = errors.New("executable not found")

// Output holds what a finished command wrote.
type Output struct {
	Stdout string
	Stderr string
}

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Executor runs a program given as an argument vector. Nothing is passed through a shell.
type Executor interface {
	// LookPath resolves name on the executor's search path, returning ErrNotFound if absent.
	LookPath(ctx context.Context, name string) (string, error)

	// Run executes name with args and waits for it. A non-zero exit yields *ExitError together
	// with whatever output was captured.
	Run(ctx context.Context, name string, args ...string) (*Output, error)
}

// Config describes which Executor to build.
type Config struct {
	Kind Kind `mapstructure:"kind"`

	// Container is the Docker container name or ID (docker).
	Container string `mapstructure:"container"`

	// Namespace, Pod and PodContainer address the pod (kubernetes). Kubeconfig overrides the
	// default lookup.
	Namespace    string `mapstructure:"namespace"`
	Pod          string `mapstructure:"pod"`
	PodContainer string `mapstructure:"podContainer"`
	Kubeconfig   string `mapstructure:"kubeconfig"`
}

// New builds the Executor selected by cfg.Kind. An empty kind means local.
func New(cfg Config) (Executor, error) {
	switch cfg.Kind {
	case "", KindLocal:
		return NewLocalExecutor(), nil
	case KindDocker:
		if cfg.Container == "" {
			return nil, errors.New("docker executor requires a container")
		}
		return NewDockerExecutor(cfg.Container)
	case KindKubernetes:
		if cfg.Pod == "" {
			return nil, errors.New("kubernetes executor requires a pod")
		}
		namespace := cfg.Namespace
		if namespace == "" {
			namespace = "default"
		}
		return NewKubernetesExecutor(cfg.Kubeconfig, namespace, cfg.Pod, cfg.PodContainer)
	default:
		return nil, fmt.Errorf("unknown executor kind %q (expected local, docker or kubernetes)", cfg.Kind)
	}
}

// lookPathArgs is the command a remote executor runs to resolve name. The name is passed as $0,
// so it is never spliced into the script text.
func lookPathArgs(name string) []string {
	return []string{"sh", "-c", `command -v "$0"`, name}
}

// lookPathResult interprets the output of lookPathArgs.
func lookPathResult(name string, out *Output, err error) (string, error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	path := strings.TrimSpace(out.Stdout)
	if path == "" {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return path, nil
}
