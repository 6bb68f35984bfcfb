package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

// Printable timetable formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportedFile is a rendered printable timetable.
type ExportedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders timetables as printable grids.
type ExportService struct {
	csv     csvRenderer
	pdf     pdfRenderer
	layout  timetable.Layout
	metrics *MetricsService
}

// NewExportService constructs an ExportService. Nil renderers use the defaults.
func NewExportService(csv csvRenderer, pdf pdfRenderer, layout timetable.Layout, metrics *MetricsService) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{csv: csv, pdf: pdf, layout: layout, metrics: metrics}
}

// Render produces the timetable of schedule in the requested format.
func (s *ExportService) Render(schedule *models.StudentTimetable, format string) (*ExportedFile, error) {
	data := s.Grid(schedule.Timetable)
	base := fmt.Sprintf("%s-%s", schedule.Student.Code, schedule.Term.Compact())

	var (
		file ExportedFile
		err  error
	)
	switch strings.ToLower(format) {
	case FormatCSV:
		file = ExportedFile{Filename: base + ".csv", ContentType: "text/csv; charset=utf-8"}
		file.Body, err = s.csv.Render(data)
	case FormatPDF:
		title := strings.TrimSpace(fmt.Sprintf("%s %s", schedule.Student.Name, schedule.Term))
		file = ExportedFile{Filename: base + ".pdf", ContentType: "application/pdf"}
		file.Body, err = s.pdf.Render(data, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrNotSupported, fmt.Sprintf("unsupported format %q", format))
	}
	if errors.Is(err, export.ErrFontRequired) {
		return nil, appErrors.Wrap(err, appErrors.ErrNotSupported.Code, appErrors.ErrNotSupported.Status, "PDF export requires EXPORT_PDF_FONT_PATH")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	s.metrics.RecordTimetableExport(strings.ToLower(format))
	return &file, nil
}

// Grid lays the timetable out as one row per period and one column per weekday.
func (s *ExportService) Grid(tt *models.Timetable) export.Dataset {
	headers := make([]string, 0, timetable.DaysPerWeek+1)
	headers = append(headers, "节次")
	for day := 1; day <= timetable.DaysPerWeek; day++ {
		headers = append(headers, timetable.DayLabel(day))
	}

	rows := make([]map[string]string, 0, s.layout.MaxPeriod())
	for period := 1; period <= s.layout.MaxPeriod(); period++ {
		row := map[string]string{headers[0]: timetable.PeriodLabel(s.layout, period, 0)}
		for day := 1; day <= timetable.DaysPerWeek; day++ {
			sections := tt.Sections(models.SlotKey{Weekday: day, Period: period})
			cells := make([]string, 0, len(sections))
			for _, section := range sections {
				cells = append(cells, describeSection(section))
			}
			row[headers[day]] = strings.Join(cells, "\n")
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func describeSection(section models.SectionDetail) string {
	parts := []string{section.Name}
	for _, extra := range []string{section.Teacher, section.Location, section.Weeks} {
		if extra != "" {
			parts = append(parts, extra)
		}
	}
	return strings.Join(parts, " / ")
}
