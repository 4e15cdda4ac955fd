package defect

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/skute123/genai-defect-management/internal/domain/shared"
)

// Environment identifies the test environment a defect was raised in
type Environment string

const (
	EnvironmentACC Environment = "acc"
	EnvironmentSIT Environment = "sit"
)

// ParseEnvironment normalizes and validates an environment string
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case EnvironmentACC:
		return EnvironmentACC, nil
	case EnvironmentSIT:
		return EnvironmentSIT, nil
	}
	return "", shared.NewDomainErrorf("INVALID_ENVIRONMENT", "unknown environment %q, expected acc or sit", s)
}

// Environments lists all known environments
func Environments() []Environment {
	return []Environment{EnvironmentACC, EnvironmentSIT}
}

// resolvedKeywords mark a defect as resolved when they appear in Resolution
var resolvedKeywords = []string{"closed", "resolved", "done", "fixed", "verified"}

// Defect is the aggregate root for a tracked platform defect.
// Field names mirror the tracker export columns they are loaded from.
type Defect struct {
	IssueKey          string
	Summary           string
	Priority          string
	Resolution        string
	FixVersions       string
	Description       string
	FixDescription    string
	OSFStack          string
	OSFSystem         string
	VendorApplication string
	Comment           string
	Environment       Environment
}

// NormalizeIssueKey canonicalizes an issue key for lookups
func NormalizeIssueKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// NewDefect creates a defect with a validated, normalized issue key
func NewDefect(issueKey, summary string, env Environment) (*Defect, error) {
	key := NormalizeIssueKey(issueKey)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_ISSUE_KEY", "issue key is required")
	}
	if env != EnvironmentACC && env != EnvironmentSIT {
		return nil, shared.NewDomainErrorf("INVALID_ENVIRONMENT", "unknown environment %q", string(env))
	}
	return &Defect{
		IssueKey:    key,
		Summary:     strings.TrimSpace(summary),
		Environment: env,
	}, nil
}

// IsResolved reports whether the resolution marks this defect as done
func (d *Defect) IsResolved() bool {
	resolution := strings.ToLower(d.Resolution)
	for _, kw := range resolvedKeywords {
		if strings.Contains(resolution, kw) {
			return true
		}
	}
	return false
}

// SearchText builds the text used for semantic indexing of this defect
func (d *Defect) SearchText() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{d.Summary, d.Description, d.FixDescription, d.OSFSystem, d.Comment} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, "\n")
}

// DocumentQuery builds the text used to find knowledge base passages
// and to describe the problem to the language model. Shorter than
// SearchText: the comment trail would drown out the actual symptom.
func (d *Defect) DocumentQuery() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{d.Summary, d.Description, d.OSFSystem, d.FixDescription} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// CommentEntry is a single dated entry parsed from the comment trail
type CommentEntry struct {
	Timestamp time.Time
	Text      string
}

// Tracker comment timestamps look like "21/Mar/24 10:15 AM"
var commentTimestampRe = regexp.MustCompile(`(\d{2}/[A-Za-z]{3}/\d{2} \d{1,2}:\d{2} [AP]M)`)

const commentTimeLayout = "02/Jan/06 3:04 PM"

// CommentTimeline splits the raw comment field into dated entries,
// oldest first. Text before the first timestamp is dropped.
func (d *Defect) CommentTimeline() []CommentEntry {
	locs := commentTimestampRe.FindAllStringIndex(d.Comment, -1)
	if len(locs) == 0 {
		return nil
	}

	entries := make([]CommentEntry, 0, len(locs))
	for i, loc := range locs {
		raw := d.Comment[loc[0]:loc[1]]
		ts, err := time.Parse(commentTimeLayout, raw)
		if err != nil {
			continue
		}
		end := len(d.Comment)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.TrimSpace(d.Comment[loc[1]:end])
		text = strings.TrimPrefix(text, ";")
		text = strings.TrimSpace(text)
		entries = append(entries, CommentEntry{Timestamp: ts, Text: text})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries
}
