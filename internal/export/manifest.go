package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/warehouse-cli/internal/analysis"
)

// ManifestFile is the manifest's file name inside the output directory.
const ManifestFile = "manifest.yaml"

// Manifest summarizes one run for operators.
type Manifest struct {
	RunID            string                   `yaml:"run_id"`
	Source           string                   `yaml:"source"`
	CreatedAt        time.Time                `yaml:"created_at"`
	Orders           int                      `yaml:"orders"`
	LineItems        int                      `yaml:"line_items"`
	Products         int                      `yaml:"products"`
	Warehouses       int                      `yaml:"warehouses"`
	Thresholds       analysis.Thresholds      `yaml:"thresholds"`
	ZeroProfitPolicy string                   `yaml:"zero_profit_policy"`
	Categories       []analysis.CategoryCount `yaml:"categories"`
	Outputs          []string                 `yaml:"outputs"`
}

// NewManifest builds a manifest for a finished run.
func NewManifest(run Run, r *analysis.Report, opts analysis.Options, outputs []string) Manifest {
	counts := r.CategoryCounts()
	return Manifest{
		RunID:            run.ID,
		Source:           run.Source,
		CreatedAt:        run.CreatedAt,
		Orders:           len(r.Tariffs),
		LineItems:        len(r.LineItems),
		Products:         len(r.Products),
		Warehouses:       len(counts),
		Thresholds:       opts.Thresholds,
		ZeroProfitPolicy: string(opts.ZeroProfitPolicy),
		Categories:       counts,
		Outputs:          outputs,
	}
}

// WriteManifest writes m to <dir>/manifest.yaml and returns the path.
func WriteManifest(dir string, m Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", eris.Wrap(err, "manifest: marshal")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "manifest: create dir %s", dir)
	}

	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "manifest: write %s", path)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "manifest: read %s", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "manifest: parse")
	}
	return &m, nil
}
