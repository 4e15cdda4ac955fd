package importing

import (
	"github.com/skute123/genai-defect-management/internal/domain/defect"
	"github.com/skute123/genai-defect-management/internal/domain/shared"
)

// Tracker export column headers
const (
	HeaderIssueKey          = "Issue key"
	HeaderSummary           = "Summary"
	HeaderPriority          = "Priority"
	HeaderResolution        = "Resolution"
	HeaderFixVersions       = "Fix Version/s"
	HeaderDescription       = "Description"
	HeaderFixDescription    = "Custom field (OSF-Fix Description)"
	HeaderOSFStack          = "Custom field (OSF-Stack)"
	HeaderOSFSystem         = "Custom field (OSF-System)"
	HeaderVendorApplication = "Custom field (Vendor + Application)"
	HeaderComment           = "Comment"
)

// RequiredHeaders lists the columns a tracker export must carry
func RequiredHeaders() []string {
	return []string{HeaderIssueKey, HeaderSummary}
}

// RowToDefect maps a merged import row to the domain aggregate.
// Rows without an issue key are rejected.
func RowToDefect(get func(string) string, env defect.Environment) (*defect.Defect, error) {
	d, err := defect.NewDefect(get(HeaderIssueKey), get(HeaderSummary), env)
	if err != nil {
		return nil, err
	}
	d.Priority = get(HeaderPriority)
	d.Resolution = get(HeaderResolution)
	d.FixVersions = get(HeaderFixVersions)
	d.Description = get(HeaderDescription)
	d.FixDescription = get(HeaderFixDescription)
	d.OSFStack = get(HeaderOSFStack)
	d.OSFSystem = get(HeaderOSFSystem)
	d.VendorApplication = get(HeaderVendorApplication)
	d.Comment = get(HeaderComment)
	return d, nil
}

// ttwosHeaderMap translates the German TTWOS extract headers to the
// tracker export vocabulary. The category columns carry a trailing
// " +" in the extract.
var ttwosHeaderMap = map[string]string{
	"Ticketnummer":          HeaderIssueKey,
	"Prio":                  HeaderPriority,
	"Kurzbeschreibung":      HeaderSummary,
	"Beschreibung":          HeaderDescription,
	"Rückmeldebeschreibung": HeaderComment,
	"Kategorie1 +":          HeaderOSFSystem,
	"Kategorie2 +":          HeaderOSFStack,
	"Kategorie3 +":          HeaderVendorApplication,
}

// TranslateTTWOSHeader maps one TTWOS header to its tracker
// equivalent; unknown headers pass through unchanged
func TranslateTTWOSHeader(header string) string {
	if mapped, ok := ttwosHeaderMap[header]; ok {
		return mapped
	}
	return header
}

// ValidateRequired checks a header lookup for the mandatory columns
func ValidateRequired(has func(string) bool) error {
	for _, h := range RequiredHeaders() {
		if !has(h) {
			return shared.NewDomainErrorf("IMPORT_MISSING_COLUMN", "required column %q is missing", h)
		}
	}
	return nil
}
