package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/client"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/internal/session"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/export"
	"github.com/noah-isme/sma-gradebook/pkg/observability"
	"github.com/noah-isme/sma-gradebook/pkg/storage"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

// app holds the wired services shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
	errOut io.Writer

	guard    *session.Guard
	metrics  *service.MetricsService
	auth     *service.AuthService
	grades   *service.GradeService
	students *service.StudentService
	subjects *service.SubjectService
	teachers *service.TeacherService
	schools  *service.SchoolService
	users    *service.UserService
	exports  *service.ExportService

	closers []func() error
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, out: os.Stdout, errOut: os.Stderr}

	store, closeStore, err := repository.OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	manager := session.NewManager(store, cfg.Session.KeyPrefix, logger)
	a.guard = session.NewGuard(manager, logger)
	a.guard.Subscribe(func(s session.State) {
		logger.Debug("session state changed", zap.Stringer("state", s))
	})

	a.metrics = service.NewMetricsService()
	api := client.New(cfg.API.BaseURL, cfg.API.Timeout, a.guard,
		client.WithLogger(logger),
		client.WithObserver(a.metrics),
		client.WithErrorReporter(observability.CaptureErr),
	)

	validate := validation.New()
	a.auth = service.NewAuthService(api, a.guard, validate, logger)
	a.grades = service.NewGradeService(api, validate, logger)
	a.students = service.NewStudentService(api, validate, logger)
	a.subjects = service.NewSubjectService(api, validate, logger)
	a.teachers = service.NewTeacherService(api, validate, logger)
	a.schools = service.NewSchoolService(api, validate, logger)
	a.users = service.NewUserService(api, validate, logger)

	local, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		return nil, fmt.Errorf("export dir: %w", err)
	}
	bucket, err := storage.NewS3Storage(cfg.Export.S3)
	if err != nil {
		return nil, fmt.Errorf("export bucket: %w", err)
	}
	// a nil *S3Storage must not become a non-nil interface
	var uploader service.ObjectUploader
	if bucket != nil {
		uploader = bucket
	}
	a.exports = service.NewExportService(local, uploader, cfg.Export.Retention, logger).
		WithCSV(csvOptions(cfg.Export)...)

	return a, nil
}

func csvOptions(cfg config.ExportConfig) []export.CSVOption {
	var opts []export.CSVOption
	if sep := []rune(cfg.CSVSeparator); len(sep) == 1 {
		opts = append(opts, export.WithSeparator(sep[0]))
	}
	if cfg.CSVBOM {
		opts = append(opts, export.WithBOM())
	}
	return opts
}

// actor returns the signed-in user or fails with the sign-in prompt.
func (a *app) actor(ctx context.Context) (*models.User, error) {
	return a.auth.CurrentUser(ctx)
}

func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close", zap.Error(err))
		}
	}
	snap := a.metrics.Snapshot()
	a.logger.Debug("api calls",
		zap.Uint64("total", snap.APICallsTotal),
		zap.Uint64("failures", snap.APIFailuresTotal),
		zap.Float64("avg_ms", snap.AverageAPICallDurationMs))
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
