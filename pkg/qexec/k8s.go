package qexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/remotecommand"
	clientexec "k8s.io/client-go/util/exec"
)

// KubernetesExecutor runs commands in a pod container, typically a Slurm login pod.
type KubernetesExecutor struct {
	client    kubernetes.Interface
	config    *rest.Config
	namespace string
	pod       string
	container string
}

// NewKubernetesExecutor targets namespace/pod. An empty containerName uses the pod's default
// container.
func NewKubernetesExecutor(kubeconfig, namespace, pod, containerName string) (*KubernetesExecutor, error) {
	config, err := restConfig(kubeconfig)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return &KubernetesExecutor{
		client:    clientset,
		config:    config,
		namespace: namespace,
		pod:       pod,
		container: containerName,
	}, nil
}

// restConfig returns a Kubernetes REST config.
// Priority: explicit kubeconfig > in-cluster config > KUBECONFIG env > ~/.kube/config
func restConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig == "" {
		if config, err := rest.InClusterConfig(); err == nil {
			return config, nil
		}

		kubeconfig = os.Getenv("KUBECONFIG")
		if kubeconfig == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			kubeconfig = filepath.Join(home, ".kube", "config")
		}
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig from %s: %w", kubeconfig, err)
	}
	return config, nil
}

func (k *KubernetesExecutor) LookPath(ctx context.Context, name string) (string, error) {
	args := lookPathArgs(name)
	out, err := k.Run(ctx, args[0], args[1:]...)
	return lookPathResult(name, out, err)
}

func (k *KubernetesExecutor) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	req := k.client.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(k.pod).
		Namespace(k.namespace).
		SubResource("exec")

	req.VersionedParams(&corev1.PodExecOptions{
		Container: k.container,
		Command:   append([]string{name}, args...),
		Stdout:    true,
		Stderr:    true,
	}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(k.config, "POST", req.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to create executor for pod %s/%s: %w", k.namespace, k.pod, err)
	}

	var stdout, stderr bytes.Buffer
	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	var exitErr clientexec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		return out, &ExitError{Command: name, Code: exitErr.ExitStatus(), Stderr: out.Stderr}
	}
	return out, fmt.Errorf("exec %s in pod %s/%s: %w", name, k.namespace, k.pod, err)
}

var _ Executor = (*KubernetesExecutor)(nil)
