// SPDX-License-Identifier: Apache-2.0

// Package metrics defines the Prometheus collectors exported by the gateway.
package metrics
