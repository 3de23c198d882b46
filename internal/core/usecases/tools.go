package usecases

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aptradar/aptradar/internal/core/domain"
)

// ToolResponse is what a dispatched tool hands back to the webhook
// caller: structured data plus a short phrase for the agent to speak.
type ToolResponse struct {
	Data      map[string]any `json:"data"`
	Utterance string         `json:"utterance"`
}

// ToolHandler executes one named tool.
type ToolHandler func(ctx context.Context, params map[string]any) (*ToolResponse, error)

// ToolRegistry is the fixed tool-name → handler dispatch table shared by
// the voice agent and the external conversational-AI webhook.
type ToolRegistry struct {
	tools map[string]ToolHandler
}

// NewToolRegistry wires the standard tools over the search service.
func NewToolRegistry(search *SearchService) *ToolRegistry {
	r := &ToolRegistry{tools: map[string]ToolHandler{}}
	r.tools["search.text"] = r.searchText(search)
	r.tools["search.nearby"] = r.searchNearby(search)
	r.tools["finance.affordability"] = affordability
	return r
}

// Names lists the registered tool names, sorted.
func (r *ToolRegistry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch routes a tool call to exactly one handler. Unknown names are
// rejected synchronously with the available tools listed.
func (r *ToolRegistry) Dispatch(ctx context.Context, tool string, params map[string]any) (*ToolResponse, error) {
	tool = strings.TrimSpace(tool)
	handler, ok := r.tools[tool]
	if !ok {
		return nil, domain.Invalid("Unknown tool %q. Available: %s", tool, strings.Join(r.Names(), ", "))
	}
	if params == nil {
		params = map[string]any{}
	}
	return handler(ctx, params)
}

func (r *ToolRegistry) searchText(search *SearchService) ToolHandler {
	return func(ctx context.Context, params map[string]any) (*ToolResponse, error) {
		q := strings.TrimSpace(stringParam(params, "q"))
		if q == "" {
			return nil, domain.Invalid("Please provide a city or ZIP (e.g., 'Norfolk, VA' or '24060').")
		}

		results, err := search.Search(ctx, "text", q, "", "")
		if err != nil {
			return nil, err
		}

		say := fmt.Sprintf("I couldn't find places near %s. Try another location.", q)
		if len(results) > 0 {
			say = fmt.Sprintf("I found %d places near %s. Showing them now.", len(results), q)
		}
		return &ToolResponse{
			Data: map[string]any{
				"results":  results,
				"params":   map[string]string{"mode": "text", "q": q},
				"navigate": "/dashboard?mode=text&q=" + q,
			},
			Utterance: say,
		}, nil
	}
}

func (r *ToolRegistry) searchNearby(search *SearchService) ToolHandler {
	return func(ctx context.Context, params map[string]any) (*ToolResponse, error) {
		sw := strings.TrimSpace(stringParam(params, "sw"))
		ne := strings.TrimSpace(stringParam(params, "ne"))
		if sw == "" || ne == "" {
			return nil, domain.Invalid("Please provide map bounds: 'sw' and 'ne' as 'lat,lng'.")
		}

		results, err := search.Search(ctx, "nearby", "", sw, ne)
		if err != nil {
			return nil, err
		}

		say := "No places in the current map area."
		if len(results) > 0 {
			say = fmt.Sprintf("I found %d places in the current map area.", len(results))
		}
		return &ToolResponse{
			Data: map[string]any{
				"results":  results,
				"params":   map[string]string{"mode": "nearby", "sw": sw, "ne": ne},
				"navigate": fmt.Sprintf("/dashboard?mode=nearby&sw=%s&ne=%s", sw, ne),
			},
			Utterance: say,
		}, nil
	}
}

// affordability computes a recommended monthly rent range from income,
// fixed debts, and a savings goal. The cap is the tightest of the 30%
// rule, a 36% debt-to-income ceiling, and income left after debts and
// the savings goal; the floor is 80% of the cap.
func affordability(_ context.Context, params map[string]any) (*ToolResponse, error) {
	income := floatParam(params, "incomeMonthly")
	debts := floatParam(params, "fixedDebtsMonthly")
	savings := floatParam(params, "targetSavingsMonthly")

	thirty := 0.30 * income
	dtiCap := math.Max(0, 0.36*income-debts)
	afterGoal := math.Max(0, income-debts-savings)
	recMax := math.Max(0, math.Min(thirty, math.Min(dtiCap, afterGoal)))
	recMin := 0.8 * recMax

	lo := int(math.Round(recMin))
	hi := int(math.Round(recMax))

	return &ToolResponse{
		Data:      map[string]any{"recommended": []int{lo, hi}},
		Utterance: fmt.Sprintf("I recommend a rent of $%s to $%s per month.", groupThousands(lo), groupThousands(hi)),
	}, nil
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

// floatParam accepts JSON numbers and numeric strings; anything else is 0.
func floatParam(params map[string]any, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// groupThousands formats 1234567 as "1,234,567".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
