package defect

import (
	"time"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
)

// DefectDTO is the transport shape of a defect
type DefectDTO struct {
	IssueKey          string `json:"issue_key"`
	Summary           string `json:"summary"`
	Priority          string `json:"priority"`
	Resolution        string `json:"resolution"`
	FixVersions       string `json:"fix_versions"`
	Description       string `json:"description"`
	FixDescription    string `json:"fix_description"`
	OSFStack          string `json:"osf_stack"`
	OSFSystem         string `json:"osf_system"`
	VendorApplication string `json:"vendor_application"`
	Comment           string `json:"comment"`
	Environment       string `json:"environment"`
	Resolved          bool   `json:"resolved"`
}

// TimelineEntryDTO is one dated comment entry
type TimelineEntryDTO struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// IssueKeyResultDTO is the issue-key lookup response: the defect plus
// its parsed comment trail
type IssueKeyResultDTO struct {
	Defect   DefectDTO          `json:"defect"`
	Timeline []TimelineEntryDTO `json:"timeline,omitempty"`
}

// DistributionDTO is one bucket of a categorical breakdown
type DistributionDTO struct {
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ToDefectDTO maps the domain aggregate to its DTO
func ToDefectDTO(d *defect.Defect) DefectDTO {
	return DefectDTO{
		IssueKey:          d.IssueKey,
		Summary:           d.Summary,
		Priority:          d.Priority,
		Resolution:        d.Resolution,
		FixVersions:       d.FixVersions,
		Description:       d.Description,
		FixDescription:    d.FixDescription,
		OSFStack:          d.OSFStack,
		OSFSystem:         d.OSFSystem,
		VendorApplication: d.VendorApplication,
		Comment:           d.Comment,
		Environment:       string(d.Environment),
		Resolved:          d.IsResolved(),
	}
}
