package genai

// SimilarDefectDTO is one semantic match from the defect index
type SimilarDefectDTO struct {
	IssueKey       string  `json:"issue_key"`
	Summary        string  `json:"summary"`
	Priority       string  `json:"priority"`
	Resolution     string  `json:"resolution"`
	FixDescription string  `json:"fix_description"`
	OSFSystem      string  `json:"osf_system"`
	Source         string  `json:"source"`
	Similarity     float64 `json:"similarity"` // percentage, one decimal
	Resolved       bool    `json:"resolved"`
}

// DocumentHitDTO is one knowledge base match
type DocumentHitDTO struct {
	Filename   string  `json:"filename"`
	Title      string  `json:"title"`
	Section    string  `json:"section,omitempty"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// RootCauseDTO is one bucket of the root-cause breakdown
type RootCauseDTO struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SuggestionDTO is a resolution proposal derived from similar
// resolved defects
type SuggestionDTO struct {
	Confidence      string         `json:"confidence"` // high, medium, low
	TopSimilarity   float64        `json:"top_similarity"`
	SuggestedFix    string         `json:"suggested_fix"`
	BasedOnIssueKey string         `json:"based_on_issue_key,omitempty"`
	RootCauses      []RootCauseDTO `json:"root_causes,omitempty"`
	Narrative       string         `json:"narrative,omitempty"`
}

// HistoricalInsightsDTO aggregates the similar-defect population
type HistoricalInsightsDTO struct {
	TotalSimilar   int     `json:"total_similar"`
	ResolvedCount  int     `json:"resolved_count"`
	ResolutionRate float64 `json:"resolution_rate"` // percentage
	AvgSimilarity  float64 `json:"avg_similarity"`  // percentage
}

// SummaryDTO is the generated context summary for a defect
type SummaryDTO struct {
	Overview           string                `json:"overview"`
	LikelyCause        string                `json:"likely_cause"`
	RecommendedAction  string                `json:"recommended_action"`
	HistoricalInsights HistoricalInsightsDTO `json:"historical_insights"`
	DocumentInsights   []string              `json:"document_insights,omitempty"`
	FullSummary        string                `json:"full_summary"`
}

// EnhancedResultDTO bundles everything the assistant knows about a
// defect or a free-text problem description
type EnhancedResultDTO struct {
	Query          string             `json:"query"`
	IssueKey       string             `json:"issue_key,omitempty"`
	SimilarDefects []SimilarDefectDTO `json:"similar_defects"`
	Documents      []DocumentHitDTO   `json:"documents"`
	Suggestion     *SuggestionDTO     `json:"suggestion,omitempty"`
	Summary        *SummaryDTO        `json:"summary,omitempty"`
}

// IndexReportDTO reports an indexing run
type IndexReportDTO struct {
	Indexed int  `json:"indexed"`
	Skipped bool `json:"skipped"`
	Total   int  `json:"total"`
}
