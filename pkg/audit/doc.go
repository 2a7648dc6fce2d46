// SPDX-License-Identifier: Apache-2.0

// Package audit records what the gateway did with every send request:
// who asked, which tenant, how many recipients, and how delivery went.
// Events fan out to configured sinks (structured log always, Kafka when
// brokers are configured) through a non-blocking queue so auditing can
// never stall or fail a request.
package audit
