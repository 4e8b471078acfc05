// Package demoplugin is a sample collaborator that logs through the
// logger its host injects.
package demoplugin

import (
	"github.com/philipp01105/ulog/core"
	"github.com/philipp01105/ulog/logger"
)

// Header prefixes every line the plugin writes
const Header = "PLUGIN  :"

// Runner is what a host expects from a collaborator: it accepts the
// host's logger and then does its work.
type Runner interface {
	logger.Injectable
	Run()
}

// Plugin writes one line per severity when run
type Plugin struct {
	name string
}

// New creates a plugin. The name is used in its messages.
func New(name string) *Plugin {
	if name == "" {
		name = "plugin"
	}
	return &Plugin{name: name}
}

// InjectLogger installs the host's logger as the active one. A failure
// is reported through whichever logger ends up installed.
func (p *Plugin) InjectLogger(l *logger.Logger) {
	if err := logger.Install(l); err != nil {
		logger.Error(Header, "install logger:", err)
	}
}

// Run logs one message at every severity
func (p *Plugin) Run() {
	for _, sev := range core.Severities {
		logger.Print(sev, func(r logger.Record) {
			r.Str(Header).Str(sev.String()).Str("message from").Str(p.name)
		})
	}
}
