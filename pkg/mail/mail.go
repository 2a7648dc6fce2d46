package mail

import (
	"crypto/tls"
	"math"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/supra126/worker-email-notifier/pkg/config"
	"github.com/supra126/worker-email-notifier/pkg/metrics"
)

// Message is a fully composed email for a single recipient. Text is always
// set; HTML is optional and sent as an alternative part.
type Message struct {
	SenderAddress string
	SenderName    string
	Recipient     string
	Subject       string
	Text          string
	HTML          string
}

// Sender delivers one composed message to its recipient.
type Sender interface {
	Send(msg *Message) error
	GetHost() string
	GetPort() int
}

type sender struct {
	dialer         *gomail.Dialer
	retryCount     int
	retryBackoffMs int
	log            *zap.SugaredLogger
}

// NewSender creates an SMTP-backed Sender for one mailer binding.
func NewSender(cfg config.Mailer, log *zap.SugaredLogger) Sender {
	log.Infow("Initializing mail sender",
		"binding", cfg.Name,
		"host", cfg.Host,
		"port", cfg.Port,
		"user", cfg.Username)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureSkipVerify {
		log.Warnw("InsecureSkipVerify is enabled for mail TLS connection", "binding", cfg.Name)
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	retryCount := cfg.RetryCount
	if retryCount <= 0 {
		retryCount = 3
	}
	retryBackoffMs := cfg.RetryBackoffMs
	if retryBackoffMs <= 0 {
		retryBackoffMs = 100
	}

	return &sender{
		dialer:         d,
		retryCount:     retryCount,
		retryBackoffMs: retryBackoffMs,
		log:            log,
	}
}

func (s *sender) Send(msg *Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.SenderAddress, msg.SenderName)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	var lastErr error
	backoffMs := s.retryBackoffMs

	for attempt := 0; attempt <= s.retryCount; attempt++ {
		err := s.dialer.DialAndSend(m)
		if err == nil {
			metrics.MailSendSuccess.WithLabelValues(s.GetHost()).Inc()
			return nil
		}

		lastErr = err
		if attempt < s.retryCount {
			s.log.Warnw("Send attempt failed, retrying",
				"attempt", attempt+1,
				"recipient", msg.Recipient,
				"error", err,
				"backoffMs", backoffMs)
			time.Sleep(time.Duration(backoffMs) * time.Millisecond)
			backoffMs = int(math.Min(float64(backoffMs)*2, 32000))
		} else {
			s.log.Errorw("Failed to send mail after all attempts",
				"attempts", s.retryCount+1,
				"recipient", msg.Recipient,
				"error", err)
		}
	}

	metrics.MailSendFailure.WithLabelValues(s.GetHost()).Inc()
	return lastErr
}

func (s *sender) GetHost() string {
	return s.dialer.Host
}

func (s *sender) GetPort() int {
	return s.dialer.Port
}
