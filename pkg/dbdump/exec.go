// Copyright (c) 2025, the pcdebug authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dbdump

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
)

// PodExecutor runs a command inside a pod container and returns its
// captured stdout. The dump flow depends on this interface so tests can
// script exec responses without a live cluster.
type PodExecutor interface {
	Exec(ctx context.Context, namespace, pod, container string, command []string) (stdout []byte, err error)
}

// SPDYPodExecutor executes pod commands over the Kubernetes exec
// subresource using SPDY streaming.
type SPDYPodExecutor struct {
	clientset kubernetes.Interface
	config    *rest.Config
}

// NewSPDYPodExecutor creates an executor bound to the given cluster.
func NewSPDYPodExecutor(clientset kubernetes.Interface, config *rest.Config) *SPDYPodExecutor {
	return &SPDYPodExecutor{
		clientset: clientset,
		config:    config,
	}
}

// Exec runs command in the named pod container, returning stdout. A
// non-zero exit or stream failure returns an error carrying the trimmed
// stderr when available.
func (e *SPDYPodExecutor) Exec(ctx context.Context, namespace, pod, container string, command []string) ([]byte, error) {
	req := e.clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: container,
			Command:   command,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	exec, err := remotecommand.NewSPDYExecutor(e.config, "POST", req.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to create pod executor: %w", err)
	}

	var stdout, stderr bytes.Buffer
	if err := exec.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	}); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("exec in pod %s/%s failed: %s: %w", namespace, pod, msg, err)
		}
		return nil, fmt.Errorf("exec in pod %s/%s failed: %w", namespace, pod, err)
	}

	return stdout.Bytes(), nil
}
