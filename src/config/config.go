package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds the application-level settings.
type Config struct {
	DataDir        string   `json:"data_dir"`        // directory the acquisition step drops datasets into
	DatasetKeyword string   `json:"dataset_keyword"` // filename token the locator matches
	ExportDir      string   `json:"export_dir"`      // where cleaned datasets are exported
	LogName        string   `json:"log_name"`
	LogMaxSize     string   `json:"log_max_size"`
	CheckInterval  Duration `json:"check_interval"` // dataset directory rescan interval
}

// DatasetConfig holds the schema-specific settings of the music dataset.
type DatasetConfig struct {
	GenreColumn     string            `json:"genre_column"`
	GenreDelimiter  string            `json:"genre_delimiter"`
	TimeColumn      string            `json:"time_column"`
	ExplicitColumn  string            `json:"explicit_column"`
	OutlierColumns  []string          `json:"outlier_columns"`
	FenceMultiplier float64           `json:"fence_multiplier"`
	Columns         map[string]string `json:"columns"` // column -> description
}

var (
	once                  sync.Once
	instance              *Config
	datasetConfigInstance *DatasetConfig
	mu                    sync.RWMutex
)

// LoadConfig loads both configuration files exactly once per process.
func LoadConfig(jsonFolder, jsonFile, datasetJSONFile string) (*Config, *DatasetConfig, error) {
	var err error
	once.Do(func() {
		instance, datasetConfigInstance, err = loadConfigs(jsonFolder, jsonFile, datasetJSONFile)
	})
	return instance, datasetConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, datasetJSONFile string) (*Config, *DatasetConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	datasetConfigFile := filepath.Join(jsonFolder, datasetJSONFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	datasetConfigData, err := readFile(datasetConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read dataset config file: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DatasetConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDatasetConfig(datasetConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(cfg, dcfg)
	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("failed to parse Config: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDatasetConfig(data []byte, resultChan chan<- *DatasetConfig, errChan chan<- error) {
	var dcfg DatasetConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("failed to parse DatasetConfig: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DatasetConfig,
	errChan <-chan error,
) (*Config, *DatasetConfig, error) {
	var (
		cfg  *Config
		dcfg *DatasetConfig
		errs []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("some configuration was not loaded")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "configuration loading hit multiple errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

func applyDefaults(cfg *Config, dcfg *DatasetConfig) {
	if cfg.DatasetKeyword == "" {
		cfg.DatasetKeyword = "spotify"
	}
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = Duration(5 * time.Minute)
	}
	if dcfg.GenreColumn == "" {
		dcfg.GenreColumn = "genre"
	}
	if dcfg.GenreDelimiter == "" {
		dcfg.GenreDelimiter = ","
	}
	if dcfg.TimeColumn == "" {
		dcfg.TimeColumn = "year"
	}
	if dcfg.ExplicitColumn == "" {
		dcfg.ExplicitColumn = "explicit"
	}
	if len(dcfg.OutlierColumns) == 0 {
		dcfg.OutlierColumns = []string{"year", "popularity"}
	}
}

// Fence returns the configured IQR fence multiplier, defaulting to the
// conventional 1.5.
func (dc *DatasetConfig) Fence() float64 {
	mu.RLock()
	defer mu.RUnlock()
	if dc.FenceMultiplier <= 0 {
		return 1.5
	}
	return dc.FenceMultiplier
}

func (dc *DatasetConfig) GetColumnDescription(colName string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.Columns[colName]
}

func (dc *DatasetConfig) SetColumnDescription(colName, value string) {
	mu.Lock()
	defer mu.Unlock()
	if dc.Columns == nil {
		dc.Columns = make(map[string]string)
	}
	dc.Columns[colName] = value
}

// Duration is a custom wrapper around time.Duration supporting JSON
// serialization from strings like "5m".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
