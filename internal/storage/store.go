package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dynfric/internal/config"
	"github.com/san-kum/dynfric/internal/logging"
	"github.com/san-kum/dynfric/internal/sweep"
	"go.uber.org/zap"
)

const (
	metadataFile = "metadata.json"
	ratesFile    = "rates.csv"
)

var ratesHeader = []string{"rads", "dadt_total", "dadt_gas", "tau_total", "tau_gas"}

type Store struct {
	baseDir string
	log     *zap.Logger
}

func New(baseDir string, log *zap.Logger) *Store {
	return &Store{baseDir: baseDir, log: logging.OrNop(log)}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Timestamp time.Time      `json:"timestamp"`
	Points    int            `json:"points"`
	Config    *config.Config `json:"config"`
}

// Save writes the sweep result under a new run directory and returns its id.
func (s *Store) Save(name string, cfg *config.Config, result *sweep.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Points:    result.Len(),
		Config:    cfg,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeRates(filepath.Join(runDir, ratesFile), result); err != nil {
		return "", err
	}

	s.log.Info("run saved", zap.String("id", runID), zap.Int("points", result.Len()))
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeRates writes the rate table. A failed close is reported since buffered
// rows may not have reached the disk.
func writeRates(path string, result *sweep.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(ratesHeader); err != nil {
		f.Close()
		return err
	}
	for i := 0; i < result.Len(); i++ {
		row := []string{
			formatFloat(result.Rads[i]),
			formatFloat(result.DadtTotal[i]),
			formatFloat(result.DadtGas[i]),
			formatFloat(result.TauTotal[i]),
			formatFloat(result.TauGas[i]),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// formatFloat keeps full precision so reloaded rates compare exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the stored runs, oldest first. Unreadable runs are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug("skipping run", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// RatesPath returns the location of a run's rate table.
func (s *Store) RatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, ratesFile)
}

func (s *Store) LoadRates(runID string) (*sweep.Result, error) {
	file, err := os.Open(s.RatesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(ratesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	res := &sweep.Result{}
	if len(records) < 2 {
		return res, nil
	}

	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("rates.csv line %d: %w", i+2, err)
			}
			vals[j] = v
		}
		res.Rads = append(res.Rads, vals[0])
		res.DadtTotal = append(res.DadtTotal, vals[1])
		res.DadtGas = append(res.DadtGas, vals[2])
		res.TauTotal = append(res.TauTotal, vals[3])
		res.TauGas = append(res.TauGas, vals[4])
	}

	return res, nil
}
