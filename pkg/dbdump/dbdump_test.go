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
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/pcd-tools/pcdebug/pkg/sink"
)

// fakeExecutor scripts exec responses keyed by the joined command line.
type fakeExecutor struct {
	responses map[string][]byte
	calls     []string
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{responses: map[string][]byte{}}
}

func (f *fakeExecutor) script(command string, out []byte) {
	f.responses[command] = out
}

func (f *fakeExecutor) Exec(_ context.Context, _, pod, container string, command []string) ([]byte, error) {
	key := strings.Join(command, " ")
	f.calls = append(f.calls, fmt.Sprintf("%s/%s: %s", pod, container, key))
	if out, ok := f.responses[key]; ok {
		return out, nil
	}
	return nil, fmt.Errorf("unscripted exec: %s", key)
}

func pod(name, label string, phase corev1.PodPhase) *corev1.Pod {
	parts := strings.SplitN(label, "=", 2)
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "pcd",
			Labels:    map[string]string{parts[0]: parts[1]},
		},
		Status: corev1.PodStatus{Phase: phase},
	}
}

func newTestDumper(t *testing.T, exec PodExecutor, pods ...*corev1.Pod) (*Dumper, string) {
	t.Helper()

	clientset := fake.NewSimpleClientset()
	for _, p := range pods {
		_, err := clientset.CoreV1().Pods(p.Namespace).Create(context.Background(), p, metav1.CreateOptions{})
		require.NoError(t, err)
	}

	root := t.TempDir()
	snk, err := sink.NewDirSink(root)
	require.NoError(t, err)

	return NewDumper(clientset, exec, snk, Config{Namespace: "pcd"}), root
}

func TestRun_FullDumpFlow(t *testing.T) {
	exec := newFakeExecutor()
	exec.script(
		`bash -l -c consul-dump-yaml --start-key customers/$CUSTOMER_ID/regions/$REGION_ID/db`,
		[]byte(regionConfigYAML),
	)
	exec.script(
		"bash -l -c consul-dump-yaml --start-key customers/acme/dbservers/pxc-primary",
		[]byte(dbserverConfigYAML),
	)
	exec.script(
		"bash -c MYSQL_PWD='s3cret' mysqldump -h percona-db-pxc-db-haproxy --single-transaction --all-databases -u root",
		[]byte("-- MySQL dump\nCREATE DATABASE nova;\n"),
	)

	d, root := newTestDumper(t, exec,
		pod("resmgr-0", "app=resmgr", corev1.PodRunning),
		pod("haproxy-0", "app.kubernetes.io/component=haproxy", corev1.PodRunning),
	)

	require.NoError(t, d.Run(context.Background()))

	// The artifact is a valid gzip stream of the mysqldump output.
	f, err := os.Open(filepath.Join(root, "database", "mysql_dump_all_databases.sql.gz"))
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = io.Copy(&buf, zr)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "CREATE DATABASE nova;")

	// Config reads go through the resmgr container, the dump through haproxy.
	require.Len(t, exec.calls, 3)
	assert.Contains(t, exec.calls[0], "resmgr-0/resmgr")
	assert.Contains(t, exec.calls[1], "resmgr-0/resmgr")
	assert.Contains(t, exec.calls[2], "haproxy-0/haproxy")
}

func TestRun_MissingNamespaceIsInvalid(t *testing.T) {
	snk, err := sink.NewDirSink(t.TempDir())
	require.NoError(t, err)

	d := NewDumper(fake.NewSimpleClientset(), newFakeExecutor(), snk, Config{})
	err = d.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
}

func TestRun_NoResmgrPod(t *testing.T) {
	d, root := newTestDumper(t, newFakeExecutor(),
		pod("haproxy-0", "app.kubernetes.io/component=haproxy", corev1.PodRunning),
	)

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource-manager")

	// Nothing is written on failure.
	_, err = os.Stat(filepath.Join(root, "database"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_ConfigParseFailureAborts(t *testing.T) {
	exec := newFakeExecutor()
	exec.script(
		`bash -l -c consul-dump-yaml --start-key customers/$CUSTOMER_ID/regions/$REGION_ID/db`,
		[]byte("customers: {}\n"),
	)

	d, _ := newTestDumper(t, exec,
		pod("resmgr-0", "app=resmgr", corev1.PodRunning),
		pod("haproxy-0", "app.kubernetes.io/component=haproxy", corev1.PodRunning),
	)

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PARSE_FAILED")

	// The flow stops before any mysqldump attempt.
	require.Len(t, exec.calls, 1)
}

func TestFindPod_PrefersRunning(t *testing.T) {
	d, _ := newTestDumper(t, newFakeExecutor(),
		pod("resmgr-pending", "app=resmgr", corev1.PodPending),
		pod("resmgr-live", "app=resmgr", corev1.PodRunning),
	)

	name, err := d.findPod(context.Background(), "app=resmgr")
	require.NoError(t, err)
	assert.Equal(t, "resmgr-live", name)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Namespace: "pcd"}.withDefaults()
	assert.Equal(t, DefaultDBPodLabel, cfg.DBPodLabel)
	assert.Equal(t, DefaultDBServiceName, cfg.DBServiceName)

	cfg = Config{Namespace: "pcd", DBPodLabel: "x=y", DBServiceName: "svc"}.withDefaults()
	assert.Equal(t, "x=y", cfg.DBPodLabel)
	assert.Equal(t, "svc", cfg.DBServiceName)
}
