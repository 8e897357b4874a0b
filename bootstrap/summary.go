package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/kbukum/startup-analyzer/component"
)

// InfrastructureInfo holds one infrastructure line of the summary.
type InfrastructureInfo struct {
	Name    string
	Type    string // "server", "cache"
	Details string
	Port    int
}

// Summary tracks and displays the application bootstrap result.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	routes          []component.Route
	health          []component.Health
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure adds an infrastructure line by hand.
func (s *Summary) TrackInfrastructure(name, componentType, details string, port int) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{
		Name:    name,
		Type:    componentType,
		Details: details,
		Port:    port,
	})
}

// Collect gathers descriptions, routes and live health from the registry.
// Components implementing component.Describable and component.RouteProvider
// contribute infrastructure lines and routes respectively.
func (s *Summary) Collect(ctx context.Context, registry *component.Registry) {
	if registry == nil {
		return
	}
	for _, c := range registry.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			name := desc.Name
			if name == "" {
				name = c.Name()
			}
			s.TrackInfrastructure(name, desc.Type, desc.Details, desc.Port)
		}
		if rp, ok := c.(component.RouteProvider); ok {
			s.routes = append(s.routes, rp.Routes()...)
		}
	}
	s.health = registry.HealthAll(ctx)
}

// Routes returns the collected routes.
func (s *Summary) Routes() []component.Route {
	return s.routes
}

// Write renders the summary to w.
func (s *Summary) Write(w io.Writer) {
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.infrastructure) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n")
	} else {
		fmt.Fprintf(w, "Infrastructure\n")
		for i, inf := range s.infrastructure {
			details := inf.Details
			if inf.Port > 0 && !strings.Contains(details, fmt.Sprintf(":%d", inf.Port)) {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(s.infrastructure)), inf.Name, inf.Type, details)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(s.routes))
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Method", "Path", "Handler"})
		table.SetBorder(false)
		table.SetAutoWrapText(false)
		for _, r := range s.routes {
			table.Append([]string{r.Method, r.Path, r.Handler})
		}
		table.Render()
	}

	if len(s.health) > 0 {
		fmt.Fprintf(w, "\nHealth\n")
		healthy := 0
		for i, h := range s.health {
			msg := ""
			if h.Message != "" {
				msg = ": " + h.Message
			}
			fmt.Fprintf(w, "   %s %s %s (%s)%s\n", treePrefix(i, len(s.health)), healthStatusIcon(h.Status), h.Name, h.Status, msg)
			if h.Status == component.StatusHealthy {
				healthy++
			}
		}
		if healthy == len(s.health) {
			fmt.Fprintf(w, "\nAll components healthy (%d/%d)\n", healthy, len(s.health))
		} else {
			fmt.Fprintf(w, "\nSome components have issues (%d/%d healthy)\n", healthy, len(s.health))
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
