// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/maps"

	"github.com/supra126/worker-email-notifier/pkg/apiresponses"
	"github.com/supra126/worker-email-notifier/pkg/audit"
	"github.com/supra126/worker-email-notifier/pkg/metrics"
	"github.com/supra126/worker-email-notifier/pkg/system"
	"github.com/supra126/worker-email-notifier/pkg/validate"
)

// Input limits enforced before any delivery attempt.
const (
	MaxSubjectLength = 500
	MaxContentLength = 100000
	MaxRecipients    = 50
)

// SendRequest carries the raw decoded body. Fields stay untyped so that a
// wrong type surfaces at its own validation gate with its own message
// instead of failing the whole decode.
type SendRequest struct {
	To         any `json:"to"`
	Subject    any `json:"subject"`
	Content    any `json:"content"`
	HTML       any `json:"html"`
	PlatformID any `json:"platformId"`
}

// SendResponse is the completion envelope. Success means at least one
// recipient was delivered to.
type SendResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Platform string           `json:"platform"`
	Details  []DeliveryResult `json:"details"`
}

// handleSend runs the validation gates in strict order. The first failing
// gate determines the response; nothing is delivered unless every gate
// passes.
func (ct *Controller) handleSend(c *gin.Context) {
	log := system.GetReqLogger(c, ct.log)

	if !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		ct.reject(c, http.StatusUnsupportedMediaType, "Content-Type must be application/json", "content_type")
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ct.reject(c, http.StatusBadRequest, "Invalid JSON in request body", "invalid_json")
		return
	}

	platforms := ct.registry.ResolvePlatforms(ct.cfg.PlatformSource())
	if platforms == nil {
		log.Errorw("platform registry unavailable, rejecting request")
		ct.record(audit.NewEvent(audit.EventRequestFailed, "").
			WithDetail("reason", "platform registry unavailable"))
		ct.reject(c, http.StatusInternalServerError, "Server configuration error", "server_config")
		return
	}
	platformIDs := maps.Keys(platforms)
	sort.Strings(platformIDs)
	available := strings.Join(platformIDs, ", ")

	platformID, isString := req.PlatformID.(string)
	if falsy(req.PlatformID) {
		ct.reject(c, http.StatusBadRequest,
			fmt.Sprintf("Missing required field: platformId. Available platforms: %s", available),
			"missing_platform")
		return
	}
	if !isString || !validate.IsValidPlatformID(platformID) {
		ct.reject(c, http.StatusBadRequest,
			"Invalid platformId format. Only alphanumeric characters, underscores, and hyphens are allowed.",
			"platform_format")
		return
	}

	platform, known := platforms[platformID]
	if !known {
		ct.reject(c, http.StatusBadRequest,
			fmt.Sprintf("Invalid platformId: %s. Available platforms: %s", platformID, available),
			"unknown_platform")
		return
	}

	if platform.SenderEmail == "" || platform.SenderName == "" || platform.Mailer == "" {
		// full config only in the server-side log
		log.Errorw("incomplete platform config", "platform", platformID,
			"senderEmail", platform.SenderEmail, "senderName", platform.SenderName,
			"mailer", platform.Mailer)
		ct.record(audit.NewEvent(audit.EventRequestFailed, platformID).
			WithDetail("reason", "incomplete platform config"))
		ct.reject(c, http.StatusInternalServerError, "Platform configuration error", "platform_config")
		return
	}

	if !ct.authorized(c.GetHeader("X-API-Key"), platformID) {
		log.Warnw("rejecting unauthorized send request", "platform", platformID)
		event := audit.NewEvent(audit.EventRequestUnauthorized, platformID)
		event.CorrelationID = system.GetRequestID(c)
		event.SourceIP = c.ClientIP()
		ct.record(event)
		metrics.RequestsRejected.WithLabelValues("unauthorized").Inc()
		metrics.RequestsTotal.WithLabelValues("rejected").Inc()
		apiresponses.Unauthorized(c)
		return
	}

	if falsy(req.To) || falsy(req.Subject) || (falsy(req.Content) && falsy(req.HTML)) {
		ct.reject(c, http.StatusBadRequest,
			"Missing required fields: to, subject, and content or html", "missing_fields")
		return
	}

	subject, ok := req.Subject.(string)
	if !ok {
		ct.reject(c, http.StatusBadRequest, "Field 'subject' must be a string", "field_type")
		return
	}
	content, err := optionalString(req.Content)
	if err != nil {
		ct.reject(c, http.StatusBadRequest, "Field 'content' must be a string", "field_type")
		return
	}
	html, err := optionalString(req.HTML)
	if err != nil {
		ct.reject(c, http.StatusBadRequest, "Field 'html' must be a string", "field_type")
		return
	}

	// header injection defense
	if strings.ContainsAny(subject, "\r\n") {
		ct.reject(c, http.StatusBadRequest, "Subject cannot contain newline characters", "subject_newline")
		return
	}

	if len(subject) > MaxSubjectLength {
		ct.reject(c, http.StatusBadRequest,
			fmt.Sprintf("Subject exceeds maximum length of %d characters", MaxSubjectLength), "subject_length")
		return
	}
	if len(content) > MaxContentLength {
		ct.reject(c, http.StatusBadRequest,
			fmt.Sprintf("Content exceeds maximum length of %d characters", MaxContentLength), "content_length")
		return
	}
	if len(html) > MaxContentLength {
		ct.reject(c, http.StatusBadRequest,
			fmt.Sprintf("HTML content exceeds maximum length of %d characters", MaxContentLength), "html_length")
		return
	}

	rawRecipients := normalizeRecipients(req.To)
	if len(rawRecipients) > MaxRecipients {
		ct.reject(c, http.StatusBadRequest,
			fmt.Sprintf("Exceeds maximum of %d recipients", MaxRecipients), "recipient_count")
		return
	}
	recipients := make([]string, 0, len(rawRecipients))
	for _, entry := range rawRecipients {
		recipient, isAddr := entry.(string)
		if !isAddr || !validate.IsValidEmailAddress(recipient) {
			ct.reject(c, http.StatusBadRequest, "Invalid email address format", "recipient_format")
			return
		}
		recipients = append(recipients, recipient)
	}

	sender, found := ct.mailers.Lookup(platform.Mailer)
	if !found {
		log.Errorw("mailer binding not found", "platform", platformID, "binding", platform.Mailer)
		ct.record(audit.NewEvent(audit.EventRequestFailed, platformID).
			WithDetail("reason", "mailer binding not found"))
		ct.reject(c, http.StatusInternalServerError, "Platform configuration error", "platform_config")
		return
	}

	results := ct.dispatch(sender, platform, platformID, subject, content, html, recipients)

	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Status == StatusFulfilled {
			succeeded++
		} else {
			failed++
		}
	}

	ct.recordDelivery(c, platformID, len(recipients), succeeded, failed)

	status := http.StatusOK
	outcome := "success"
	if succeeded == 0 {
		status = http.StatusInternalServerError
		outcome = "failed"
	} else if failed > 0 {
		outcome = "partial"
	}
	metrics.RequestsTotal.WithLabelValues(outcome).Inc()

	c.JSON(status, SendResponse{
		Success:  succeeded > 0,
		Message:  fmt.Sprintf("Email sent: %d success, %d failed", succeeded, failed),
		Platform: platformID,
		Details:  results,
	})
}

// authorized checks the caller's key against the per-tenant registry and the
// shared key. Both comparisons are constant-time at equal lengths.
func (ct *Controller) authorized(apiKey, platformID string) bool {
	if apiKey == "" {
		return false
	}

	apiKeys := ct.registry.ResolveAPIKeys(ct.cfg.APIKeysJSON)
	if apiKeys != nil {
		if key, ok := apiKeys[platformID]; ok && key != "" && validate.ConstantTimeEquals(apiKey, key) {
			return true
		}
	}

	if ct.cfg.SharedAPIKey != "" && validate.ConstantTimeEquals(apiKey, ct.cfg.SharedAPIKey) {
		return true
	}

	return false
}

func (ct *Controller) reject(c *gin.Context, status int, message, reason string) {
	metrics.RequestsRejected.WithLabelValues(reason).Inc()
	metrics.RequestsTotal.WithLabelValues("rejected").Inc()
	apiresponses.Error(c, status, message)
}

func (ct *Controller) recordDelivery(c *gin.Context, platformID string, recipients, succeeded, failed int) {
	eventType := audit.EventDeliverySucceeded
	switch {
	case succeeded == 0:
		eventType = audit.EventDeliveryFailed
	case failed > 0:
		eventType = audit.EventDeliveryPartial
	}
	event := audit.NewEvent(eventType, platformID)
	event.CorrelationID = system.GetRequestID(c)
	event.SourceIP = c.ClientIP()
	event.Recipients = recipients
	event.Succeeded = succeeded
	event.Failed = failed
	ct.record(event)
}

// falsy mirrors the loose presence semantics of the request contract: an
// absent field, empty string, false or numeric zero all count as missing.
func falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	}
	return false
}

// optionalString returns the value as a string when present. A present
// non-string value is a type error; an absent or falsy one is just empty.
func optionalString(v any) (string, error) {
	if falsy(v) {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("not a string")
	}
	return s, nil
}

// normalizeRecipients accepts a single address or a list. Entries stay
// untyped here; a non-string entry fails the address format gate.
func normalizeRecipients(to any) []any {
	if list, ok := to.([]any); ok {
		return list
	}
	return []any{to}
}
