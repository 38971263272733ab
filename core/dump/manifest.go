package dump

import (
	"fmt"
	"os"
	"time"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manifest summarizes one run. Tables keep their export order.
type Manifest struct {
	RunID       string
	Source      string
	Destination string
	Format      string
	Started     time.Time
	Finished    time.Time
	Tables      *orderedmap.OrderedMap[string, TableResult]
}

// NewManifest starts a manifest for a run configured by opts.
func NewManifest(opts Options) *Manifest {
	return &Manifest{
		RunID:       uuid.New().String(),
		Source:      opts.DBPath,
		Destination: opts.OutputDir,
		Format:      opts.Format,
		Started:     time.Now().UTC(),
		Tables:      orderedmap.NewOrderedMap[string, TableResult](),
	}
}

// Add records an exported table.
func (m *Manifest) Add(r TableResult) {
	m.Tables.Set(r.Table, r)
}

// Finish stamps the end time.
func (m *Manifest) Finish() {
	m.Finished = time.Now().UTC()
}

// TotalRows sums the rows of every recorded table.
func (m *Manifest) TotalRows() int {
	total := 0
	for el := m.Tables.Front(); el != nil; el = el.Next() {
		total += el.Value.Rows
	}
	return total
}

type manifestDoc struct {
	RunID       string    `yaml:"run_id"`
	Source      string    `yaml:"source"`
	Destination string    `yaml:"destination"`
	Format      string    `yaml:"format"`
	Started     time.Time `yaml:"started"`
	Finished    time.Time `yaml:"finished"`
	TotalRows   int       `yaml:"total_rows"`
	Tables      yaml.Node `yaml:"tables"`
}

// MarshalYAML renders tables as a mapping in export order.
func (m *Manifest) MarshalYAML() (any, error) {
	tables := yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for el := m.Tables.Front(); el != nil; el = el.Next() {
		var value yaml.Node
		if err := value.Encode(el.Value); err != nil {
			return nil, err
		}
		tables.Content = append(tables.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: el.Key},
			&value,
		)
	}

	return manifestDoc{
		RunID:       m.RunID,
		Source:      m.Source,
		Destination: m.Destination,
		Format:      m.Format,
		Started:     m.Started,
		Finished:    m.Finished,
		TotalRows:   m.TotalRows(),
		Tables:      tables,
	}, nil
}

// WriteFile writes the manifest as YAML to path.
func (m *Manifest) WriteFile(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("unable to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write manifest: %w", err)
	}
	return nil
}
