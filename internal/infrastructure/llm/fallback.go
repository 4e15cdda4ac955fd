package llm

import (
	"context"
	"strings"
)

// RuleBasedFallback produces canned guidance when no LLM is reachable.
// Responses are keyed on the defect vocabulary found in the prompt.
type RuleBasedFallback struct{}

// NewRuleBasedFallback creates the fallback generator
func NewRuleBasedFallback() *RuleBasedFallback {
	return &RuleBasedFallback{}
}

// Available always reports true; the fallback never goes away
func (f *RuleBasedFallback) Available(_ context.Context) bool {
	return true
}

var fallbackResponses = []struct {
	keywords []string
	response string
}{
	{
		keywords: []string{"timeout"},
		response: "This looks like a timeout issue. Check upstream service latency and connection pool limits, then review retry and timeout configuration on the calling side.",
	},
	{
		keywords: []string{"validation", "invalid"},
		response: "This looks like a validation failure. Compare the rejected payload against the interface contract and verify recent changes to validation rules on both sides.",
	},
	{
		keywords: []string{"payment"},
		response: "This involves the payment flow. Verify the payment gateway callback configuration and reconcile the order state with the payment provider's transaction log.",
	},
	{
		keywords: []string{"database", "sql", "deadlock"},
		response: "This looks database related. Check for slow queries, lock contention and recent schema changes, and review the connection pool settings.",
	},
	{
		keywords: []string{"api", "endpoint", "http"},
		response: "This looks like an API integration issue. Verify the endpoint contract, authentication headers and status code handling between the involved systems.",
	},
	{
		keywords: []string{"null", "nil", "npe"},
		response: "This looks like a missing-value defect. Trace where the absent field originates and add a guard plus a regression test at that boundary.",
	},
}

const fallbackDefault = "Based on similar resolved defects, review the affected component's recent changes and the attached fix descriptions. Reproduce in the lower environment before applying a fix."

// Generate matches prompt keywords against the canned response table
func (f *RuleBasedFallback) Generate(_ context.Context, prompt string) (string, error) {
	lower := strings.ToLower(prompt)
	for _, entry := range fallbackResponses {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.response, nil
			}
		}
	}
	return fallbackDefault, nil
}

// WithFallback wraps a primary generator with the rule-based fallback.
// The fallback answers when the primary is down or errors out.
type WithFallback struct {
	primary  Generator
	fallback Generator
}

// NewWithFallback builds the combined generator
func NewWithFallback(primary Generator) *WithFallback {
	return &WithFallback{primary: primary, fallback: NewRuleBasedFallback()}
}

func (g *WithFallback) Available(_ context.Context) bool {
	return true
}

func (g *WithFallback) Generate(ctx context.Context, prompt string) (string, error) {
	if g.primary != nil && g.primary.Available(ctx) {
		if out, err := g.primary.Generate(ctx, prompt); err == nil {
			return out, nil
		}
	}
	return g.fallback.Generate(ctx, prompt)
}
