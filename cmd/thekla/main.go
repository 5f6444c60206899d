// Command thekla clusters text documents by their topic-model centroids.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/thekla/internal/adapters/driven/chart/svg"
	"github.com/custodia-labs/thekla/internal/adapters/driven/chart/terminal"
	"github.com/custodia-labs/thekla/internal/adapters/driven/clustering/dbscan"
	"github.com/custodia-labs/thekla/internal/adapters/driven/clustering/kmeans"
	"github.com/custodia-labs/thekla/internal/adapters/driven/config/file"
	"github.com/custodia-labs/thekla/internal/adapters/driven/export/semeval"
	"github.com/custodia-labs/thekla/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/thekla/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/thekla/internal/adapters/driven/topicmodel/ldac"
	"github.com/custodia-labs/thekla/internal/adapters/driving/cli"
	"github.com/custodia-labs/thekla/internal/connectors/filesystem"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
	"github.com/custodia-labs/thekla/internal/core/services"
	"github.com/custodia-labs/thekla/internal/logger"
)

func main() {
	cli.SetFactory(build)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// build wires adapters into services according to the global flags.
func build(opts cli.GlobalOptions) (*cli.Services, error) {
	log := logger.NewConsole(os.Stderr, opts.Quiet, opts.Debug)
	if opts.LogFile != "" {
		level, err := logger.ParseLevel(opts.LogFileLevel)
		if err != nil {
			return nil, err
		}
		if err := log.OpenFile(opts.LogFile, level); err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
	}

	var cache driven.CentroidCache = memory.NewCentroidStore()
	if opts.CachePath != "" {
		store, err := sqlite.NewStore(opts.CachePath)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("opening centroid cache: %w", err)
		}
		log.Debug("using centroid cache %s", store.Path())
		cache = store
	}

	models := ldac.New()
	collections := services.NewCollectionService(filesystem.New(), cache, log)
	clustering := services.NewClusteringService(log, dbscan.New(), kmeans.New())
	runs := services.NewRunService(
		file.NewConfigStore(),
		models,
		collections,
		clustering,
		semeval.New(),
		log,
		svg.New(),
		terminal.New(os.Stdout),
	)

	return &cli.Services{
		Run:    runs,
		Topics: services.NewTopicService(models),
		Close: func() error {
			return errors.Join(cache.Close(), log.Close())
		},
	}, nil
}
