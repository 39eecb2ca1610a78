package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/federicowoodward/siaade-api/internal/models"
	"github.com/federicowoodward/siaade-api/pkg/config"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
	"github.com/federicowoodward/siaade-api/pkg/export"
)

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type statusReporter interface {
	GetStudentAcademicStatus(ctx context.Context, studentID string) (*models.AcademicStatusReport, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	RenderSections(title string, sections []export.Section) ([]byte, error)
}

// ExportResult carries a rendered document with its transport metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders a student's academic status report as a downloadable
// document, one table per academic year.
type ExportService struct {
	status statusReporter
	csv    csvRenderer
	pdf    pdfRenderer
	cfg    config.ReportsConfig
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(status statusReporter, cfg config.ReportsConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{status: status, csv: csv, pdf: pdf, cfg: cfg, logger: logger}
}

var statusHeaders = []string{"Year", "Subject", "Commission", "Condition", "Final Score"}

// Export renders the academic status report for the student in the requested
// format. The feature is behind a config switch.
func (s *ExportService) Export(ctx context.Context, studentID string, format ExportFormat) (*ExportResult, error) {
	if !s.cfg.ExportEnabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "status export is disabled")
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	report, err := s.status.GetStudentAcademicStatus(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(flattenReport(report))
	case ExportFormatPDF:
		payload, err = s.pdf.RenderSections("Academic Status", sectionsFor(report))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("academic status exported",
		zap.String("student_id", studentID),
		zap.String("format", string(format)))

	return &ExportResult{
		Filename:    fmt.Sprintf("academic-status-%s.%s", studentID, format),
		ContentType: contentTypeFor(format),
		Payload:     payload,
	}, nil
}

func flattenReport(report *models.AcademicStatusReport) export.Dataset {
	dataset := export.Dataset{Headers: statusHeaders}
	for _, year := range report.Years {
		for _, row := range report.ByYear[year] {
			dataset.Rows = append(dataset.Rows, statusRow(year, row))
		}
	}
	return dataset
}

func sectionsFor(report *models.AcademicStatusReport) []export.Section {
	sections := make([]export.Section, 0, len(report.Years))
	for _, year := range report.Years {
		section := export.Section{
			Heading: yearHeading(year),
			Data:    export.Dataset{Headers: statusHeaders},
		}
		for _, row := range report.ByYear[year] {
			section.Data.Rows = append(section.Data.Rows, statusRow(year, row))
		}
		sections = append(sections, section)
	}
	if len(sections) == 0 {
		sections = append(sections, export.Section{Data: export.Dataset{Headers: statusHeaders}})
	}
	return sections
}

func statusRow(year string, row models.SubjectStatusRow) map[string]string {
	record := map[string]string{
		"Year":      year,
		"Subject":   row.SubjectName,
		"Condition": string(row.Condition),
	}
	if row.CommissionLetter != nil {
		record["Commission"] = *row.CommissionLetter
	}
	if row.FinalScore != nil {
		record["Final Score"] = strconv.FormatFloat(*row.FinalScore, 'f', 2, 64)
	}
	return record
}

func yearHeading(year string) string {
	if year == YearUnknown {
		return "Unscheduled"
	}
	return "Year " + year
}

func contentTypeFor(format ExportFormat) string {
	if format == ExportFormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}
