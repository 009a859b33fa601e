package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

var contentTypes = map[ExportFormat]string{
	ExportCSV:  "text/csv",
	ExportPDF:  "application/pdf",
	ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseExportFormat accepts a case-insensitive format name.
func ParseExportFormat(raw string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := contentTypes[f]; !ok {
		return "", appErrors.WithMessages(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
	return f, nil
}

// Export column headers.
const (
	colStudent = "Aluno"
	colSubject = "Disciplina"
	colScores  = "Notas"
	colAverage = "Média"
	colStatus  = "Situação"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ObjectUploader copies finished exports to remote storage.
type ObjectUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult describes a written export.
type ExportResult struct {
	Path   string
	URI    string
	Format ExportFormat
	Rows   int
	Pruned []string
}

// ExportService renders the grade board and stores the file locally, and in
// the bucket when an uploader is configured.
type ExportService struct {
	storage   fileStorage
	uploader  ObjectUploader
	csv       csvRenderer
	pdf       titledRenderer
	xlsx      titledRenderer
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. uploader may be nil.
func NewExportService(storage fileStorage, uploader ObjectUploader, retention time.Duration, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		storage:   storage,
		uploader:  uploader,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		xlsx:      export.NewXLSXExporter(),
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// WithCSV replaces the CSV renderer options.
func (s *ExportService) WithCSV(opts ...export.CSVOption) *ExportService {
	s.csv = export.NewCSVExporter(opts...)
	return s
}

// GradeDataset converts board rows into an export dataset.
func GradeDataset(rows []GradeRow) export.Dataset {
	data := export.Dataset{
		Headers: []string{colStudent, colSubject, colScores, colAverage, colStatus},
		Rows:    make([]map[string]string, 0, len(rows)),
		Numeric: []string{colAverage},
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, map[string]string{
			colStudent: r.StudentName,
			colSubject: r.SubjectName,
			colScores:  r.ScoreList(),
			colAverage: FormatScore(r.Average),
			colStatus:  r.Status.Label(),
		})
	}
	return data
}

// ExportGrades renders the grades of board matching filter. When the upload
// fails the local result is still returned alongside the error.
func (s *ExportService) ExportGrades(ctx context.Context, board *GradeBoard, filter models.GradeFilter, format ExportFormat) (*ExportResult, error) {
	if board == nil {
		return nil, appErrors.WithMessages(appErrors.ErrValidation, "nothing to export")
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, appErrors.WithMessages(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	rows := board.Rows(filter)
	data := GradeDataset(rows)
	title := "Notas"

	var (
		payload []byte
		err     error
	)
	switch format {
	case ExportCSV:
		payload, err = s.csv.Render(data)
	case ExportPDF:
		payload, err = s.pdf.Render(data, title)
	case ExportXLSX:
		payload, err = s.xlsx.Render(data, title)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "render export")
	}

	name := fmt.Sprintf("notas-%s.%s", s.now().Format("20060102-150405"), format)
	written, err := s.storage.Save(name, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage, "save export")
	}
	result := &ExportResult{Path: written, Format: format, Rows: len(rows)}
	s.logger.Info("export written", zap.String("path", written), zap.Int("rows", len(rows)))

	if s.retention > 0 {
		pruned, err := s.storage.CleanupOlderThan(s.retention)
		if err != nil {
			s.logger.Warn("prune old exports", zap.Error(err))
		}
		result.Pruned = pruned
	}

	if s.uploader != nil {
		uri, err := s.uploader.Upload(ctx, path.Join("exports", name), payload, contentType)
		if err != nil {
			s.logger.Error("upload export", zap.String("file", name), zap.Error(err))
			return result, appErrors.Wrap(err, appErrors.ErrServiceUnavailable, "upload export")
		}
		result.URI = uri
	}
	return result, nil
}
