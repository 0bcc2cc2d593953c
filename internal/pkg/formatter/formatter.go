package formatter

import (
	"fmt"
	"mime"
	"sort"
	"strings"

	"github.com/futig/ai-compass/internal/entity"
)

const baseTitle = "AI Maturity Report"

// Document is a format-independent report layout.
type Document struct {
	Title    string
	Sections []Section
}

type Section struct {
	Heading string
	Lines   []string
}

type Formatter interface {
	Format(doc *Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ReportFormat) (Formatter, error) {
	switch format {
	case entity.ReportFormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.ReportFormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.ReportFormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ExtensionFor maps a report content type to a file extension.
// Unknown types fall back to ".pdf", the format the backend serves by default.
func ExtensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return pdfFileExtension
	}

	switch mediaType {
	case pdfContentType:
		return pdfFileExtension
	case docxContentType:
		return docxFileExtension
	case "text/markdown":
		return markdownFileExtension
	default:
		return pdfFileExtension
	}
}

// FromResult lays out a scored assessment as a report document.
func FromResult(result *entity.AssessmentResult) *Document {
	company := result.Company
	doc := &Document{Title: baseTitle}

	doc.Sections = append(doc.Sections, Section{
		Heading: "Company",
		Lines: nonEmpty(
			company.CompanyName,
			labelled("Industry", company.Industry),
			labelled("Employees", company.NumberOfEmployees),
			labelled("City", company.City),
			labelled("Website", company.Website),
		),
	})

	scores := Section{
		Heading: "Maturity scores",
		Lines:   []string{fmt.Sprintf("Overall score: %.1f", result.OverallScore)},
	}
	dims := append([]entity.DimensionScore(nil), result.DimensionScores...)
	sort.Slice(dims, func(i, j int) bool { return dims[i].DimensionID < dims[j].DimensionID })
	for _, d := range dims {
		scores.Lines = append(scores.Lines, fmt.Sprintf("%s: %.1f / %.1f", d.DimensionName, d.Score, d.MaxScore))
	}
	doc.Sections = append(doc.Sections, scores)

	if c := result.Cluster; c != nil {
		cluster := Section{Heading: "Cluster: " + c.ClusterName}
		cluster.Lines = nonEmpty(c.ClusterDescription)
		for _, ch := range c.Characteristics {
			cluster.Lines = append(cluster.Lines, "- "+ch)
		}
		doc.Sections = append(doc.Sections, cluster)
	}

	return doc
}

func labelled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + ": " + value
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
