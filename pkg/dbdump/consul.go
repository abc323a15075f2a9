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
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// consulConfig mirrors the configuration-store YAML returned by
// consul-dump-yaml. Only the keys the dump path needs are mapped.
type consulConfig struct {
	Customers map[string]consulCustomer `yaml:"customers"`
}

type consulCustomer struct {
	Regions   map[string]consulRegion   `yaml:"regions"`
	DBServers map[string]consulDBServer `yaml:"dbservers"`
}

type consulRegion struct {
	DBServer string `yaml:"dbserver"`
}

type consulDBServer struct {
	AdminPass string `yaml:"admin_pass"`
}

// dbServerFromConfig resolves the database server name from a region
// configuration dump. Deployments carry a single customer and region;
// keys are walked in sorted order so multi-entry dumps stay
// deterministic.
func dbServerFromConfig(data []byte) (customer, server string, err error) {
	var cfg consulConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", "", fmt.Errorf("failed to parse db config yaml: %w", err)
	}

	for _, cust := range sortedKeys(cfg.Customers) {
		for _, region := range sortedKeys(cfg.Customers[cust].Regions) {
			if s := cfg.Customers[cust].Regions[region].DBServer; s != "" {
				return cust, s, nil
			}
		}
	}
	return "", "", fmt.Errorf("no dbserver found in db config yaml")
}

// adminPassFromConfig resolves the admin password for the named database
// server from a dbservers configuration dump.
func adminPassFromConfig(data []byte, customer, server string) (string, error) {
	var cfg consulConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("failed to parse db password yaml: %w", err)
	}

	cust, ok := cfg.Customers[customer]
	if !ok {
		return "", fmt.Errorf("customer %q not present in password yaml", customer)
	}
	srv, ok := cust.DBServers[server]
	if !ok || srv.AdminPass == "" {
		return "", fmt.Errorf("no admin password for db server %q", server)
	}
	return srv.AdminPass, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
