package mail

import (
	"sort"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/supra126/worker-email-notifier/pkg/config"
)

// Registry resolves mailer binding names to their Sender. Built once at
// startup and read-only afterwards.
type Registry struct {
	senders map[string]Sender
}

// NewRegistry builds a Sender for every configured mailer binding.
func NewRegistry(mailers []config.Mailer, log *zap.SugaredLogger) *Registry {
	senders := make(map[string]Sender, len(mailers))
	for _, m := range mailers {
		if m.Name == "" {
			log.Warnw("Skipping mailer binding without a name", "host", m.Host)
			continue
		}
		senders[m.Name] = NewSender(m, log.With("binding", m.Name))
	}
	return &Registry{senders: senders}
}

// Lookup returns the Sender registered under the given binding name.
func (r *Registry) Lookup(name string) (Sender, bool) {
	s, ok := r.senders[name]
	return s, ok
}

// Names returns the registered binding names, sorted.
func (r *Registry) Names() []string {
	names := maps.Keys(r.senders)
	sort.Strings(names)
	return names
}
