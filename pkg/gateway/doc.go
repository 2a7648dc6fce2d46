// Package gateway implements the send endpoint: the ordered validation and
// authentication pipeline, per-recipient concurrent delivery with
// partial-failure aggregation, and the JSON response shapes.
package gateway
