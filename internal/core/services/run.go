package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
	"github.com/custodia-labs/thekla/internal/core/ports/driving"
	"github.com/custodia-labs/thekla/internal/logger"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// RunService executes clustering runs described by config files.
type RunService struct {
	configs     driven.ConfigLoader
	models      driven.TopicModelLoader
	collections driving.CollectionService
	clustering  driving.ClusteringService
	exporter    driven.ClusterExporter
	renderers   map[domain.ChartFormat]driven.ChartRenderer
	log         *logger.Logger
}

// NewRunService creates a run service.
// The exporter parameter is optional (can be nil); renderers may be empty.
func NewRunService(
	configs driven.ConfigLoader,
	models driven.TopicModelLoader,
	collections driving.CollectionService,
	clustering driving.ClusteringService,
	exporter driven.ClusterExporter,
	log *logger.Logger,
	renderers ...driven.ChartRenderer,
) *RunService {
	s := &RunService{
		configs:     configs,
		models:      models,
		collections: collections,
		clustering:  clustering,
		exporter:    exporter,
		renderers:   make(map[domain.ChartFormat]driven.ChartRenderer, len(renderers)),
		log:         log,
	}
	for _, r := range renderers {
		s.renderers[r.Format()] = r
	}
	return s
}

// RunAll executes every config independently and joins the failures.
func (s *RunService) RunAll(ctx context.Context, configPaths []string) ([]*driving.RunReport, error) {
	s.log.Debug("Working on the following config files: %v", configPaths)

	var reports []*driving.RunReport
	var errs []error
	for _, path := range configPaths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := s.Run(ctx, path)
		if err != nil {
			s.log.Error("aborting, error in %s: %v", path, err)
			errs = append(errs, fmt.Errorf("run %s: %w", path, err))
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

// Run executes one config.
func (s *RunService) Run(ctx context.Context, configPath string) (*driving.RunReport, error) {
	report := &driving.RunReport{ID: uuid.New().String(), ConfigPath: configPath}
	s.log.Section("Run " + filepath.Base(configPath))
	s.log.Debug("run id %s", report.ID)

	cfg, err := s.configs.LoadRunConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	s.log.Info("loading topic model from %q..", cfg.BetaFile)
	tm, err := s.models.Load(ctx, cfg.VocabFile, cfg.BetaFile)
	if err != nil {
		return nil, fmt.Errorf("load topic model: %w", err)
	}
	s.log.Info("done, %d topics over %d words", tm.NumTopics(), tm.VocabSize())

	report.Title = cfg.Title
	if report.Title == "" {
		report.Title = filepath.Base(configPath)
	}

	coll, clustering, err := s.clusterings(ctx, cfg, tm)
	if err != nil {
		return nil, err
	}
	report.Documents = coll.Len()
	report.Clustering = clustering
	if cfg.ClusterFile == "" {
		report.DocDir = cfg.DocDir
	}

	if clustering.Len() == 0 {
		s.log.Info("no clusters for %q found; aborting..", report.Title)
		return nil, fmt.Errorf("%w for %q", domain.ErrNoClusters, report.Title)
	}

	centroids, err := s.clustering.Centroids(ctx, coll, clustering)
	if err != nil {
		return nil, fmt.Errorf("cluster centroids: %w", err)
	}
	report.Centroids = centroids

	exported, err := s.export(ctx, cfg, coll)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	report.Exported = exported
	if exported > 0 {
		report.SemevalFile = cfg.SemevalFile
	}

	chartPath, err := s.visualize(ctx, cfg, tm, report.Title, centroids)
	if err != nil {
		return nil, fmt.Errorf("visualize: %w", err)
	}
	report.ChartPath = chartPath

	return report, nil
}

// clusterings either loads the configured manifest or clusters the document
// directory.
func (s *RunService) clusterings(
	ctx context.Context,
	cfg *domain.RunConfig,
	tm *domain.TopicModel,
) (*domain.Collection, *domain.Clustering, error) {
	if cfg.ClusterFile != "" {
		s.log.Info("loading clusters from %q..", cfg.ClusterFile)
		manifest, err := s.configs.LoadManifest(cfg.ClusterFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load manifest: %w", err)
		}
		coll, err := s.collections.FromFiles(ctx, tm, manifest.Members(), cfg.Flavor)
		if err != nil {
			return nil, nil, fmt.Errorf("represent documents: %w", err)
		}
		return coll, manifest, nil
	}

	coll, err := s.collections.FromDir(ctx, tm, cfg.DocDir, cfg.Flavor)
	if err != nil {
		return nil, nil, fmt.Errorf("represent documents: %w", err)
	}

	s.log.Info("no clustering given, will create clustering myself..")
	var clustering *domain.Clustering
	if cfg.InferOptions() {
		clustering, err = s.clustering.ClusterInferred(ctx, coll, cfg.InferPercent)
	} else {
		clustering, err = s.clustering.Cluster(ctx, coll, cfg.Algorithm, cfg.Options)
	}
	if err != nil {
		return nil, nil, err
	}
	return coll, clustering, nil
}

// export writes the semeval file when configured. An invalid pos tag skips
// the export but not the run; a badly named document skips only itself.
func (s *RunService) export(ctx context.Context, cfg *domain.RunConfig, coll *domain.Collection) (int, error) {
	if cfg.SemevalFile == "" || s.exporter == nil {
		return 0, nil
	}
	pos, err := domain.ParsePOS(cfg.SemevalPOS)
	if err != nil {
		s.log.Error("could not export to semeval format: %v", err)
		return 0, nil
	}

	s.log.Info("exporting cluster result to %s", cfg.SemevalFile)
	docs := make([]*domain.Document, 0, coll.Len())
	for _, id := range coll.IDs() {
		doc, _ := coll.Get(id)
		docs = append(docs, doc)
	}
	n, err := s.exporter.Export(ctx, cfg.SemevalFile, pos, docs)
	skipped, err := splitSkipped(err)
	for _, e := range skipped {
		s.log.Warn("semeval export skipped a document: %v", e)
	}
	return n, err
}

// splitSkipped separates per-document naming errors, which only skip that
// document, from failures of the export itself.
func splitSkipped(err error) (skipped []error, fatal error) {
	if err == nil {
		return nil, nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var rest []error
		for _, e := range joined.Unwrap() {
			inner, f := splitSkipped(e)
			skipped = append(skipped, inner...)
			if f != nil {
				rest = append(rest, f)
			}
		}
		return skipped, errors.Join(rest...)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return []error{err}, nil
	}
	return nil, err
}

func (s *RunService) visualize(
	ctx context.Context,
	cfg *domain.RunConfig,
	tm *domain.TopicModel,
	title string,
	centroids domain.ClusterCentroids,
) (string, error) {
	if cfg.ChartFormat == domain.ChartNone || cfg.ChartFormat == "" {
		return "", nil
	}
	renderer, ok := s.renderers[cfg.ChartFormat]
	if !ok {
		s.log.Warn("no renderer for chart format %q, skipping visualization", cfg.ChartFormat)
		return "", nil
	}

	return renderer.Render(ctx, domain.Chart{
		Title:      title,
		AxisLabels: AxisLabels(tm, cfg.NWords),
		Series:     centroids,
		OutputDir:  cfg.ResultDir,
	})
}
