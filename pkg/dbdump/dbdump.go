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
	"log/slog"
	"path/filepath"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/pcd-tools/pcdebug/pkg/defaults"
	"github.com/pcd-tools/pcdebug/pkg/errors"
	"github.com/pcd-tools/pcdebug/pkg/k8s/client"
	"github.com/pcd-tools/pcdebug/pkg/sink"
)

const (
	// DefaultDBPodLabel selects the database proxy pod that fronts the
	// MySQL cluster.
	DefaultDBPodLabel = "app.kubernetes.io/component=haproxy"

	// DefaultDBServiceName is the in-cluster service the dump connects to.
	DefaultDBServiceName = "percona-db-pxc-db-haproxy"

	// resmgrPodLabel selects the resource-manager pod that carries the
	// configuration-store tooling.
	resmgrPodLabel = "app=resmgr"

	resmgrContainer  = "resmgr"
	haproxyContainer = "haproxy"

	dirDatabase  = "database"
	dumpFileName = "mysql_dump_all_databases.sql.gz"

	podListTimeoutSeconds int64 = 30
)

// Config carries the cluster coordinates for a database dump.
type Config struct {
	// Namespace is the Kubernetes namespace holding the control-plane
	// pods. Required.
	Namespace string

	// DBPodLabel overrides the proxy pod label selector.
	DBPodLabel string

	// DBServiceName overrides the MySQL service host.
	DBServiceName string
}

func (c Config) withDefaults() Config {
	if c.DBPodLabel == "" {
		c.DBPodLabel = DefaultDBPodLabel
	}
	if c.DBServiceName == "" {
		c.DBServiceName = DefaultDBServiceName
	}
	return c
}

// Dumper streams a full database dump out of the management cluster into
// the artifact sink.
type Dumper struct {
	clientset client.Interface
	executor  PodExecutor
	sink      sink.Sink
	cfg       Config
}

// NewDumper creates a dumper. Unset Config fields take the package
// defaults.
func NewDumper(clientset client.Interface, executor PodExecutor, snk sink.Sink, cfg Config) *Dumper {
	return &Dumper{
		clientset: clientset,
		executor:  executor,
		sink:      snk,
		cfg:       cfg.withDefaults(),
	}
}

// Run performs the dump: resolve the database server and its admin
// password from the configuration store, then stream mysqldump through
// the proxy pod and persist it gzip-compressed. Any step failing aborts
// the dump; nothing partial is written.
func (d *Dumper) Run(ctx context.Context) error {
	if d.cfg.Namespace == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "namespace is required for a database dump")
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.DatabaseDumpTimeout)
	defer cancel()

	resmgrPod, err := d.findPod(ctx, resmgrPodLabel)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, "failed to locate resource-manager pod", err)
	}

	customer, server, err := d.resolveDBServer(ctx, resmgrPod)
	if err != nil {
		return err
	}
	slog.Debug("resolved database server", "customer", customer, "server", server)

	pass, err := d.resolveAdminPass(ctx, resmgrPod, customer, server)
	if err != nil {
		return err
	}

	proxyPod, err := d.findPod(ctx, d.cfg.DBPodLabel)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, "failed to locate database proxy pod", err)
	}

	slog.Info("starting database dump", "namespace", d.cfg.Namespace, "pod", proxyPod, "service", d.cfg.DBServiceName)

	dump, err := d.executor.Exec(ctx, d.cfg.Namespace, proxyPod, haproxyContainer, []string{
		"bash", "-c",
		fmt.Sprintf("MYSQL_PWD='%s' mysqldump -h %s --single-transaction --all-databases -u root", pass, d.cfg.DBServiceName),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "mysqldump failed", err)
	}

	compressed, err := gzipBytes(dump)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to compress database dump", err)
	}

	relPath := filepath.Join(dirDatabase, dumpFileName)
	if err := d.sink.SaveBinary(compressed, relPath); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to persist database dump", err)
	}

	slog.Info("database dump complete", "artifact", filepath.Join(d.sink.Root(), relPath), "bytes", len(compressed))
	return nil
}

// resolveDBServer reads the region configuration out of the store and
// returns the customer and database server names.
func (d *Dumper) resolveDBServer(ctx context.Context, pod string) (customer, server string, err error) {
	out, err := d.execResmgr(ctx, pod, `consul-dump-yaml --start-key customers/$CUSTOMER_ID/regions/$REGION_ID/db`)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to read db config from configuration store", err)
	}

	customer, server, err = dbServerFromConfig(out)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeParseFailed, "failed to resolve database server", err)
	}
	return customer, server, nil
}

// resolveAdminPass reads the dbservers subtree for the resolved server
// and returns its admin password.
func (d *Dumper) resolveAdminPass(ctx context.Context, pod, customer, server string) (string, error) {
	out, err := d.execResmgr(ctx, pod, fmt.Sprintf("consul-dump-yaml --start-key customers/%s/dbservers/%s", customer, server))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to read db credentials from configuration store", err)
	}

	pass, err := adminPassFromConfig(out, customer, server)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeParseFailed, "failed to resolve database password", err)
	}
	return pass, nil
}

// execResmgr runs a shell line in the resource-manager container under a
// login shell, which provides CUSTOMER_ID and REGION_ID in the
// environment.
func (d *Dumper) execResmgr(ctx context.Context, pod, line string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.K8sExecTimeout)
	defer cancel()

	return d.executor.Exec(ctx, d.cfg.Namespace, pod, resmgrContainer, []string{"bash", "-l", "-c", line})
}

// findPod returns the name of the first running pod matching the label
// selector in the configured namespace.
func (d *Dumper) findPod(ctx context.Context, labelSelector string) (string, error) {
	pods, err := d.clientset.CoreV1().Pods(d.cfg.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector:  labelSelector,
		TimeoutSeconds: ptr.To(podListTimeoutSeconds),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list pods with label %q in %s: %w", labelSelector, d.cfg.Namespace, err)
	}

	for _, pod := range pods.Items {
		if strings.EqualFold(string(pod.Status.Phase), "Running") {
			return pod.Name, nil
		}
	}
	if len(pods.Items) > 0 {
		return pods.Items[0].Name, nil
	}
	return "", fmt.Errorf("no pod with label %q in namespace %s", labelSelector, d.cfg.Namespace)
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
