package report

import (
	"context"
	"fmt"
	"strings"

	"report-bot-be/internal/entity"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/pkg/store"
)

// DepartmentSummaryMarker flags titles that are filed once per department
// rather than per employee.
const DepartmentSummaryMarker = "部門別実績"

// Entry is one stored artifact attributed to an employee.
type Entry struct {
	ArtifactName string
	WriteDate    string
	Title        string
	Employee     string
}

// PadCode left-pads an employee code with zeros to three characters.
func PadCode(code string) string {
	for len(code) < 3 {
		code = "0" + code
	}
	return code
}

func ensurePDF(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return name
	}
	return name + ".pdf"
}

// ResolveArtifactName maps a workflow track, employee and title to the
// stored file name. Instruction artifacts already carry the full name in
// the title, department summaries file under the fixed code 000.
func ResolveArtifactName(category store.Category, employeeCode, employeeName, title string) string {
	if category == store.CategoryInstruction {
		return ensurePDF(title)
	}
	if strings.Contains(title, DepartmentSummaryMarker) {
		return ensurePDF("000_" + title)
	}
	return ensurePDF(fmt.Sprintf("%s_%s_%s", employeeCode, title, employeeName))
}

// LinkSource resolves a stored artifact name to a download URL.
// An empty URL with a nil error means the artifact does not exist.
type LinkSource interface {
	LookupDownloadURL(ctx context.Context, name string) (string, error)
}

// Resolver finds download links for named artifacts, falling back once to
// the OLD_ prefixed copy kept by the upload flow.
type Resolver struct {
	links  LinkSource
	logger logger.ILogger
}

func NewResolver(links LinkSource, log logger.ILogger) *Resolver {
	return &Resolver{links: links, logger: log}
}

// Lookup returns the download URL for name, or "" when neither the name
// nor its OLD_ variant exists. The fallback is attempted exactly once.
func (r *Resolver) Lookup(ctx context.Context, name string) (string, error) {
	resolved := ensurePDF(name)

	url, err := r.links.LookupDownloadURL(ctx, resolved)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", resolved, err)
	}
	if url != "" {
		return url, nil
	}

	fallback := "OLD_" + resolved
	r.logger.Debug("ReportResolver", "Falling back to archived copy", map[string]interface{}{
		"name":     resolved,
		"fallback": fallback,
	})
	url, err = r.links.LookupDownloadURL(ctx, fallback)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", fallback, err)
	}
	return url, nil
}

// GroupByEmployee buckets instruction records by the employee code encoded
// in their names. Names with fewer than three underscore segments are
// skipped, codes are zero-padded so 35 and 035 land in the same bucket.
func GroupByEmployee(rows []entity.Report) map[string][]Entry {
	groups := make(map[string][]Entry)
	for _, row := range rows {
		parts := strings.Split(row.Name, "_")
		if len(parts) < 3 {
			continue
		}
		code := PadCode(parts[0])
		groups[code] = append(groups[code], Entry{
			ArtifactName: row.Name,
			WriteDate:    row.WriteDate,
			Title:        parts[1],
			Employee:     strings.TrimSuffix(parts[2], ".pdf"),
		})
	}
	return groups
}

// EmployeeRefs flattens grouped entries into directory references, one per
// employee code, for carousel rendering.
func EmployeeRefs(groups map[string][]Entry) []store.EmployeeRef {
	refs := make([]store.EmployeeRef, 0, len(groups))
	for code, entries := range groups {
		refs = append(refs, store.EmployeeRef{Code: code, Name: entries[0].Employee})
	}
	return refs
}
