package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/ranking"
	"github.com/kailas-cloud/reviewrank/internal/ranking/cluster"
	"github.com/kailas-cloud/reviewrank/internal/ranking/tfidf"
	"github.com/kailas-cloud/reviewrank/internal/ranking/word2vec"
)

// Config holds the reviewrank API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Search   SearchConfig   `yaml:"search"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// SearchConfig holds candidate and batch limits.
type SearchConfig struct {
	MaxCandidates int `yaml:"max_candidates"` // reviews ranked per query, 0 = unlimited
	MaxBatchSize  int `yaml:"max_batch_size"`
}

// RankingConfig holds scoring strategy settings.
type RankingConfig struct {
	DefaultMethod string         `yaml:"default_method"`
	TFIDF         TFIDFConfig    `yaml:"tfidf"`
	Word2Vec      Word2VecConfig `yaml:"word2vec"`
	Clustering    ClusterConfig  `yaml:"clustering"`
}

// TFIDFConfig holds vectorizer settings. Nil pointers take the built-in defaults.
type TFIDFConfig struct {
	NGramMin     int      `yaml:"ngram_min"`
	NGramMax     int      `yaml:"ngram_max"`
	MinDF        float64  `yaml:"min_df"`
	MaxDF        float64  `yaml:"max_df"`
	MaxFeatures  int      `yaml:"max_features"`
	SublinearTF  *bool    `yaml:"sublinear_tf"`
	SmoothIDF    *bool    `yaml:"smooth_idf"`
	StopWords    *bool    `yaml:"stop_words"`
	Stemming     bool     `yaml:"stemming"`
	StripAccents *bool    `yaml:"strip_accents"`
	TermBonus    *float64 `yaml:"term_bonus"` // 0 disables
}

// Word2VecConfig holds embedding trainer settings.
type Word2VecConfig struct {
	Dimensions      int     `yaml:"dimensions"`
	Window          int     `yaml:"window"`
	MinCount        int     `yaml:"min_count"`
	Negative        int     `yaml:"negative"`
	Epochs          int     `yaml:"epochs"`
	LearningRate    float64 `yaml:"learning_rate"`
	MinLearningRate float64 `yaml:"min_learning_rate"`
	Seed            uint64  `yaml:"seed"`
}

// ClusterConfig is the k-means section used by GET /reviews/clusters.
type ClusterConfig struct {
	K       int    `yaml:"k"`
	MaxIter int    `yaml:"max_iter"`
	Seed    uint64 `yaml:"seed"`
}

// KMeans converts the section into cluster.Config.
func (c ClusterConfig) KMeans() cluster.Config {
	cfg := cluster.DefaultConfig()
	cfg.K = c.K
	cfg.MaxIter = c.MaxIter
	cfg.Seed = c.Seed
	return cfg
}

// Vectorizer converts the section into tfidf.Config.
func (c TFIDFConfig) Vectorizer() tfidf.Config {
	return tfidf.Config{
		NGramMin:    c.NGramMin,
		NGramMax:    c.NGramMax,
		MinDF:       c.MinDF,
		MaxDF:       c.MaxDF,
		MaxFeatures: c.MaxFeatures,
		SublinearTF: boolOr(c.SublinearTF, true),
		SmoothIDF:   boolOr(c.SmoothIDF, true),
		StopWords:   boolOr(c.StopWords, true),
		Stemming:    c.Stemming,

		StripAccents: boolOr(c.StripAccents, true),
	}
}

// Bonus returns the term-overlap bonus weight.
func (c TFIDFConfig) Bonus() float64 {
	if c.TermBonus == nil {
		return ranking.DefaultTermBonus
	}
	return *c.TermBonus
}

// Trainer converts the section into word2vec.Config.
func (c Word2VecConfig) Trainer() word2vec.Config {
	return word2vec.Config{
		Dimensions:      c.Dimensions,
		Window:          c.Window,
		MinCount:        c.MinCount,
		Negative:        c.Negative,
		Epochs:          c.Epochs,
		LearningRate:    c.LearningRate,
		MinLearningRate: c.MinLearningRate,
		Seed:            c.Seed,
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "reviewrank:"
	}
	if c.Search.MaxCandidates <= 0 {
		c.Search.MaxCandidates = 5000
	}
	if c.Search.MaxBatchSize <= 0 {
		c.Search.MaxBatchSize = 500
	}
	if c.Ranking.DefaultMethod == "" {
		c.Ranking.DefaultMethod = string(method.Default)
	}

	t := &c.Ranking.TFIDF
	td := tfidf.DefaultConfig()
	if t.NGramMin <= 0 {
		t.NGramMin = td.NGramMin
	}
	if t.NGramMax <= 0 {
		t.NGramMax = td.NGramMax
	}
	if t.MinDF <= 0 {
		t.MinDF = td.MinDF
	}
	if t.MaxDF <= 0 {
		t.MaxDF = td.MaxDF
	}
	if t.MaxFeatures <= 0 {
		t.MaxFeatures = td.MaxFeatures
	}

	w := &c.Ranking.Word2Vec
	wd := word2vec.DefaultConfig()
	if w.Dimensions <= 0 {
		w.Dimensions = wd.Dimensions
	}
	if w.Window <= 0 {
		w.Window = wd.Window
	}
	if w.MinCount <= 0 {
		w.MinCount = wd.MinCount
	}
	if w.Negative <= 0 {
		w.Negative = wd.Negative
	}
	if w.Epochs <= 0 {
		w.Epochs = wd.Epochs
	}
	if w.LearningRate <= 0 {
		w.LearningRate = wd.LearningRate
	}
	if w.MinLearningRate <= 0 {
		w.MinLearningRate = wd.MinLearningRate
	}
	if w.Seed == 0 {
		w.Seed = wd.Seed
	}

	k := &c.Ranking.Clustering
	kd := cluster.DefaultConfig()
	if k.K <= 0 {
		k.K = kd.K
	}
	if k.MaxIter <= 0 {
		k.MaxIter = kd.MaxIter
	}
	if k.Seed == 0 {
		k.Seed = kd.Seed
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if m := method.Method(strings.ToLower(c.Ranking.DefaultMethod)); !m.IsValid() {
		return fmt.Errorf("ranking.default_method must be one of %v, got %q", method.All(), c.Ranking.DefaultMethod)
	}
	t := c.Ranking.TFIDF
	if t.NGramMax < t.NGramMin {
		return fmt.Errorf("ranking.tfidf.ngram_max (%d) must be >= ngram_min (%d)", t.NGramMax, t.NGramMin)
	}
	if t.MaxDF > 1 && t.MinDF >= 1 && t.MaxDF < t.MinDF {
		return fmt.Errorf("ranking.tfidf.max_df (%v) must be >= min_df (%v)", t.MaxDF, t.MinDF)
	}
	if t.TermBonus != nil && *t.TermBonus < 0 {
		return fmt.Errorf("ranking.tfidf.term_bonus must be >= 0, got %v", *t.TermBonus)
	}
	if w := c.Ranking.Word2Vec; w.MinLearningRate > w.LearningRate {
		return fmt.Errorf("ranking.word2vec.min_learning_rate must not exceed learning_rate")
	}
	if k := c.Ranking.Clustering.K; k > cluster.MaxK {
		return fmt.Errorf("ranking.clustering.k must be at most %d, got %d", cluster.MaxK, k)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
