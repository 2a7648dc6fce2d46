// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supra126/worker-email-notifier/pkg/audit"
	"github.com/supra126/worker-email-notifier/pkg/config"
	"github.com/supra126/worker-email-notifier/pkg/mail"
	"github.com/supra126/worker-email-notifier/pkg/ratelimit"
)

// SenderRegistry resolves a named mailer binding to its transport.
// *mail.Registry is the production implementation.
type SenderRegistry interface {
	Lookup(name string) (mail.Sender, bool)
}

// Controller serves the send endpoint at the server root.
type Controller struct {
	log      *zap.SugaredLogger
	cfg      config.Config
	registry *config.Registry
	mailers  SenderRegistry
	audit    *audit.Service
	limiter  *ratelimit.IPRateLimiter
}

// New wires the controller. audit and limiter may be nil.
func New(log *zap.SugaredLogger, cfg config.Config, registry *config.Registry,
	mailers SenderRegistry, auditSvc *audit.Service, limiter *ratelimit.IPRateLimiter,
) *Controller {
	return &Controller{
		log:      log,
		cfg:      cfg,
		registry: registry,
		mailers:  mailers,
		audit:    auditSvc,
		limiter:  limiter,
	}
}

func (ct *Controller) BasePath() string {
	return ""
}

func (ct *Controller) Handlers() []gin.HandlerFunc {
	if ct.limiter != nil {
		return []gin.HandlerFunc{ct.limiter.Middleware()}
	}
	return nil
}

func (ct *Controller) Register(rg *gin.RouterGroup) error {
	rg.POST("", ct.handleSend)
	return nil
}

func (ct *Controller) record(event *audit.Event) {
	if ct.audit != nil {
		ct.audit.Record(event)
	}
}
