package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigLoader = (*ConfigStore)(nil)

// Config keys, in dot notation.
const (
	KeyVocabFile        = "topicmodel.vocabfile"
	KeyBetaFile         = "topicmodel.betafile"
	KeyDocDir           = "documents.docdir"
	KeyCentroid         = "documents.centroid_computation"
	KeyTitle            = "clustering.title"
	KeyAlgorithm        = "clustering.cluster_algorithm"
	KeyClusterOptions   = "clustering.cluster_options"
	KeyInferPercent     = "clustering.infer_percent"
	KeyClusterFile      = "clustering.clusterfile"
	KeyResultDir        = "visualization.res_dir"
	KeyNWords           = "visualization.nwords"
	KeyChartFormat      = "visualization.format"
	KeySemevalFile      = "semeval.resfile"
	KeySemevalPOS       = "semeval.pos"
	manifestMembersKey  = "docs"
)

// ConfigStore reads TOML run configs and cluster manifests.
type ConfigStore struct{}

// NewConfigStore creates a TOML config loader.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

// LoadRunConfig reads one run config. Relative paths resolve against the
// directory of the config file.
func (s *ConfigStore) LoadRunConfig(path string) (*domain.RunConfig, error) {
	v, err := readValues(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)

	cfg := &domain.RunConfig{
		Path:         path,
		VocabFile:    v.path(base, KeyVocabFile),
		BetaFile:     v.path(base, KeyBetaFile),
		DocDir:       v.path(base, KeyDocDir),
		Title:        v.GetString(KeyTitle),
		ClusterFile:  v.path(base, KeyClusterFile),
		ResultDir:    v.path(base, KeyResultDir),
		NWords:       v.GetInt(KeyNWords),
		SemevalFile:  v.path(base, KeySemevalFile),
		SemevalPOS:   v.GetString(KeySemevalPOS),
		InferPercent: domain.DefaultInferPercent,
	}

	if cfg.VocabFile == "" || cfg.BetaFile == "" {
		return nil, fmt.Errorf("%w: %s needs %s and %s", domain.ErrInvalidInput, path, KeyVocabFile, KeyBetaFile)
	}
	if cfg.DocDir == "" && cfg.ClusterFile == "" {
		return nil, fmt.Errorf("%w: %s needs %s or %s", domain.ErrInvalidInput, path, KeyDocDir, KeyClusterFile)
	}

	if cfg.Flavor, err = domain.ParseCentroidFlavor(v.GetString(KeyCentroid)); err != nil {
		return nil, err
	}
	if cfg.Algorithm, err = domain.ParseAlgorithm(v.GetString(KeyAlgorithm)); err != nil {
		return nil, err
	}
	if cfg.Options, err = v.clusterOptions(); err != nil {
		return nil, err
	}
	if p, ok := v.GetFloat(KeyInferPercent); ok {
		cfg.InferPercent = p
	}
	if cfg.NWords <= 0 {
		cfg.NWords = domain.DefaultNWords
	}
	if cfg.ChartFormat, err = chartFormat(v.GetString(KeyChartFormat), cfg.ResultDir); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadManifest reads a cluster manifest. Every top-level table names a
// cluster and lists its documents under "docs", either as a TOML array
// or as a JSON-encoded string. Clusters are numbered in name order.
func (s *ConfigStore) LoadManifest(path string) (*domain.Clustering, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	names := make([]string, 0, len(loaded))
	for name := range loaded {
		names = append(names, name)
	}
	slices.Sort(names)

	res := &domain.Clustering{}
	for i, name := range names {
		section, ok := loaded[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q is not a table", domain.ErrInvalidInput, path, name)
		}
		members, err := stringList(section[manifestMembersKey])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: cluster %q: %w", domain.ErrInvalidInput, path, name, err)
		}
		res.Clusters = append(res.Clusters, domain.Cluster{Number: i + 1, Name: name, Members: members})
	}
	return res, nil
}

// values are config entries flattened to dot-notation keys.
type values map[string]any

func readValues(path string) (values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return flattenMap(loaded, ""), nil
}

// GetString retrieves a string configuration value.
func (v values) GetString(key string) string {
	str, _ := v[key].(string)
	return strings.TrimSpace(str)
}

// GetInt retrieves an integer configuration value.
func (v values) GetInt(key string) int {
	// TOML integers are parsed as int64
	switch n := v[key].(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// GetFloat retrieves a numeric configuration value.
func (v values) GetFloat(key string) (float64, bool) {
	switch n := v[key].(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func (v values) path(base, key string) string {
	p := v.GetString(key)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// clusterOptions accepts a JSON object string or an inline table.
// Inline tables are flattened like every other table, so they are
// collected back from their prefixed keys.
func (v values) clusterOptions() (domain.ClusterParams, error) {
	if raw, ok := v[KeyClusterOptions].(string); ok {
		var params domain.ClusterParams
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidParams, KeyClusterOptions, err)
		}
		return params, nil
	}

	prefix := KeyClusterOptions + "."
	var params domain.ClusterParams
	for key, val := range v {
		if name, ok := strings.CutPrefix(key, prefix); ok {
			if params == nil {
				params = make(domain.ClusterParams)
			}
			params[name] = val
		}
	}
	return params, nil
}

func chartFormat(s, resultDir string) (domain.ChartFormat, error) {
	switch f := domain.ChartFormat(strings.ToLower(s)); f {
	case "":
		if resultDir == "" {
			return domain.ChartNone, nil
		}
		return domain.ChartSVG, nil
	case domain.ChartSVG, domain.ChartTerminal, domain.ChartNone:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s %q (want svg, terminal or none)", domain.ErrInvalidInput, KeyChartFormat, s)
	}
}

func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		var list []string
		if err := json.Unmarshal([]byte(v), &list); err != nil {
			return nil, err
		}
		return list, nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s entries must be strings, got %T", manifestMembersKey, item)
			}
			list = append(list, str)
		}
		return list, nil
	case nil:
		return nil, fmt.Errorf("missing %q", manifestMembersKey)
	default:
		return nil, fmt.Errorf("%s must be a list, got %T", manifestMembersKey, raw)
	}
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			// Recursively flatten nested maps
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}
