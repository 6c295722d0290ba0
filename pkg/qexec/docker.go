package qexec

import (
	"bytes"
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// DockerExecutor runs commands inside an existing container through the Docker Engine API, for
// clusters (usually development ones) whose scheduler client lives in a container.
type DockerExecutor struct {
	client    *client.Client
	container string
}

// NewDockerExecutor connects using the standard DOCKER_HOST/DOCKER_* environment.
func NewDockerExecutor(containerName string) (*DockerExecutor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerExecutor{client: cli, container: containerName}, nil
}

func (d *DockerExecutor) LookPath(ctx context.Context, name string) (string, error) {
	args := lookPathArgs(name)
	out, err := d.Run(ctx, args[0], args[1:]...)
	return lookPathResult(name, out, err)
}

func (d *DockerExecutor) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	created, err := d.client.ContainerExecCreate(ctx, d.container, container.ExecOptions{
		Cmd:          append([]string{name}, args...),
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exec in container %s: %w", d.container, err)
	}

	resp, err := d.client.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to attach to exec %s: %w", created.ID, err)
	}
	defer resp.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, resp.Reader); err != nil {
		return nil, fmt.Errorf("failed to read output of %s: %w", name, err)
	}
	out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}

	inspect, err := d.client.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return out, fmt.Errorf("failed to inspect exec %s: %w", created.ID, err)
	}
	if inspect.ExitCode != 0 {
		return out, &ExitError{Command: name, Code: inspect.ExitCode, Stderr: out.Stderr}
	}
	return out, nil
}

// Close releases the Docker client.
func (d *DockerExecutor) Close() error {
	return d.client.Close()
}

var _ Executor = (*DockerExecutor)(nil)
