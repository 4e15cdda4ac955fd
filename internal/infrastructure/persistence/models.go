package persistence

import (
	"github.com/skute123/genai-defect-management/internal/domain/defect"
)

// DefectModel is the gorm mapping for a defect row. Column names keep
// the tracker export headers so existing tables load unchanged.
type DefectModel struct {
	IssueKey          string `gorm:"column:Issue key;primaryKey;size:64"`
	Summary           string `gorm:"column:Summary;type:text"`
	Priority          string `gorm:"column:Priority;size:64"`
	Resolution        string `gorm:"column:Resolution;size:128"`
	FixVersions       string `gorm:"column:Fix Version/s;size:255"`
	Description       string `gorm:"column:Description;type:longtext"`
	FixDescription    string `gorm:"column:Custom field (OSF-Fix Description);type:longtext"`
	OSFStack          string `gorm:"column:Custom field (OSF-Stack);size:255"`
	OSFSystem         string `gorm:"column:Custom field (OSF-System);size:255"`
	VendorApplication string `gorm:"column:Custom field (Vendor + Application);size:255"`
	Comment           string `gorm:"column:Comment;type:longtext"`
}

// defectTables maps an environment to its backing table
var defectTables = map[defect.Environment]string{
	defect.EnvironmentACC: "defects_table_acc",
	defect.EnvironmentSIT: "defects_table_sit",
}

// DefectTableName returns the table backing an environment
func DefectTableName(env defect.Environment) string {
	return defectTables[env]
}

// searchColumnNames maps logical search columns to their DB columns
var searchColumnNames = map[defect.SearchColumn]string{
	defect.ColumnSummary:        "Summary",
	defect.ColumnDescription:    "Description",
	defect.ColumnFixDescription: "Custom field (OSF-Fix Description)",
	defect.ColumnComment:        "Comment",
}

// ToDomain converts the persistence model to the domain aggregate
func (m *DefectModel) ToDomain(env defect.Environment) defect.Defect {
	return defect.Defect{
		IssueKey:          m.IssueKey,
		Summary:           m.Summary,
		Priority:          m.Priority,
		Resolution:        m.Resolution,
		FixVersions:       m.FixVersions,
		Description:       m.Description,
		FixDescription:    m.FixDescription,
		OSFStack:          m.OSFStack,
		OSFSystem:         m.OSFSystem,
		VendorApplication: m.VendorApplication,
		Comment:           m.Comment,
		Environment:       env,
	}
}

// FromDomain converts a domain defect to its persistence model
func FromDomain(d defect.Defect) DefectModel {
	return DefectModel{
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
	}
}
