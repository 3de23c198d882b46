package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/core/ports"
	"github.com/aptradar/aptradar/internal/pkg/metrics"
)

// Router prompts, spoken back to the user verbatim.
const (
	promptAskLocation  = "What location should I search? You can say a ZIP or a city."
	promptCapabilities = "I can help find apartments or places nearby. Try a ZIP like 24060."
	promptApology      = "Something went wrong handling your request."
	promptUseMapView   = "Okay, use the current map view to search this area."
)

// ToolAgent is one pluggable utterance handler on the agent bus.
type ToolAgent interface {
	Name() string
	CanHandle(text string) bool
	Handle(ctx context.Context, text string) (domain.RoutedResult, error)
}

// Router scans its agents in priority order and hands the utterance to
// the first one whose keyword predicate matches. Single pass, terminal
// on first match; handler failure degrades to an apology.
type Router struct {
	agents []ToolAgent
}

// NewRouter builds a router over the given agents, in priority order.
func NewRouter(agents ...ToolAgent) *Router {
	return &Router{agents: agents}
}

// Route resolves one utterance into a RoutedResult. It never returns an
// error: the agent bus always has something to say.
func (r *Router) Route(ctx context.Context, text string) domain.RoutedResult {
	t := strings.TrimSpace(text)
	if t == "" {
		metrics.UtterancesRouted.WithLabelValues("default").Inc()
		return domain.RoutedResult{Summary: promptAskLocation}
	}

	for _, agent := range r.agents {
		if !agent.CanHandle(t) {
			continue
		}
		result, err := agent.Handle(ctx, t)
		if err != nil {
			slog.Error("agent failed", "agent", agent.Name(), "error", err)
			metrics.UtterancesRouted.WithLabelValues("error").Inc()
			return domain.RoutedResult{Summary: promptApology}
		}
		metrics.UtterancesRouted.WithLabelValues(agent.Name()).Inc()
		return result
	}

	metrics.UtterancesRouted.WithLabelValues("default").Inc()
	return domain.RoutedResult{Summary: promptCapabilities}
}

// DefaultAgents returns the standard bus lineup in priority order.
func DefaultAgents(search *SearchService, events ports.EventPublisher) []ToolAgent {
	return []ToolAgent{
		&PropertiesSearchAgent{search: search, events: events},
		&NearbyAgent{},
	}
}

var zipRe = regexp.MustCompile(`\b(\d{5})\b`)

// extractZipOrText pulls a 5-digit ZIP out of an utterance, falling
// back to the whole trimmed text.
func extractZipOrText(text string) string {
	if m := zipRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// PropertiesSearchAgent answers apartment-hunting utterances by running
// a text search and steering the UI to the results.
type PropertiesSearchAgent struct {
	search *SearchService
	events ports.EventPublisher
}

func (a *PropertiesSearchAgent) Name() string { return "properties.search" }

var propertyKeywords = []string{
	"apartment", "apartments", "condo", "house", "homes",
	"listings", "properties", "zip",
}

func (a *PropertiesSearchAgent) CanHandle(text string) bool {
	t := strings.ToLower(text)
	for _, k := range propertyKeywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func (a *PropertiesSearchAgent) Handle(ctx context.Context, text string) (domain.RoutedResult, error) {
	q := extractZipOrText(text)

	results, err := a.search.Search(ctx, "text", q, "", "")
	if err != nil {
		// Degrade to zero results; the user still gets an answer.
		slog.Warn("agent search failed", "q", q, "error", err)
		results = nil
	}
	count := len(results)

	a.broadcast(ctx, &domain.UIEvent{
		ID:        uuid.NewString(),
		Type:      "navigate",
		URL:       "/dashboard?mode=text&q=" + q,
		CreatedAt: time.Now().UTC(),
	})

	return domain.RoutedResult{
		Summary: fmt.Sprintf("I found %d places for %s.", count, q),
		Count:   &count,
	}, nil
}

func (a *PropertiesSearchAgent) broadcast(ctx context.Context, event *domain.UIEvent) {
	if a.events == nil {
		return
	}
	if err := a.events.PublishUIEvent(ctx, event); err != nil {
		slog.Warn("ui broadcast failed", "type", event.Type, "error", err)
	}
}

// NearbyAgent answers "around here" utterances. It has no side effects:
// the front end already knows its own viewport.
type NearbyAgent struct{}

func (a *NearbyAgent) Name() string { return "places.nearby" }

var nearbyKeywords = []string{"nearby", "around here", "close by", "this area"}

func (a *NearbyAgent) CanHandle(text string) bool {
	t := strings.ToLower(text)
	for _, k := range nearbyKeywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func (a *NearbyAgent) Handle(_ context.Context, _ string) (domain.RoutedResult, error) {
	return domain.RoutedResult{Summary: promptUseMapView}, nil
}
