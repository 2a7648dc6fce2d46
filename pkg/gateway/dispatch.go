// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"fmt"
	"sync"

	"github.com/supra126/worker-email-notifier/pkg/config"
	"github.com/supra126/worker-email-notifier/pkg/mail"
	"github.com/supra126/worker-email-notifier/pkg/metrics"
	"github.com/supra126/worker-email-notifier/pkg/validate"
)

const (
	StatusFulfilled = "fulfilled"
	StatusRejected  = "rejected"
)

// DeliveryResult is the per-recipient outcome reported back to the caller.
// Error carries a sanitized message and is only set for rejected entries.
type DeliveryResult struct {
	To     string `json:"to"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// dispatch delivers to every recipient concurrently. One recipient's failure
// never aborts the others; a panic inside a send is converted into a rejected
// result for that recipient only. Results keep the input order.
func (ct *Controller) dispatch(sender mail.Sender, platform config.Platform,
	platformID, subject, content, html string, recipients []string,
) []DeliveryResult {
	results := make([]DeliveryResult, len(recipients))

	var wg sync.WaitGroup
	for i, recipient := range recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()
			results[i] = ct.deliverOne(sender, platform, platformID, subject, content, html, recipient)
		}(i, recipient)
	}
	wg.Wait()

	return results
}

func (ct *Controller) deliverOne(sender mail.Sender, platform config.Platform,
	platformID, subject, content, html, recipient string,
) (result DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			ct.log.Errorw("panic during delivery", "platform", platformID, "panic", r)
			metrics.DeliveryFailure.WithLabelValues(platformID).Inc()
			result = DeliveryResult{
				To:     recipient,
				Status: StatusRejected,
				Error:  validate.SanitizeErrorMessage(fmt.Sprint(r)),
			}
		}
	}()

	msg := mail.Compose(platform, platformID, recipient, subject, content, html)
	if err := sender.Send(msg); err != nil {
		ct.log.Warnw("delivery failed", "platform", platformID, "error", err)
		metrics.DeliveryFailure.WithLabelValues(platformID).Inc()
		return DeliveryResult{
			To:     recipient,
			Status: StatusRejected,
			Error:  validate.SanitizeErrorMessage(err.Error()),
		}
	}

	metrics.DeliverySuccess.WithLabelValues(platformID).Inc()
	return DeliveryResult{To: recipient, Status: StatusFulfilled}
}
