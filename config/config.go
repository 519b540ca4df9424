package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5002"

	// DefaultDiscrepancyLimit bounds the per-row discrepancy report.
	DefaultDiscrepancyLimit = 100
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"LEDGERLOAD_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"LEDGERLOAD_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"LEDGERLOAD_SERVER_PORT"`
	UploadDir string `json:"upload_dir" envconfig:"LEDGERLOAD_SERVER_UPLOAD_DIR"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"LEDGERLOAD_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"LEDGERLOAD_REDIS_DNS"`
}

// JobStoreConfig selects where submission jobs are tracked.
// Backend is one of "postgres", "memory" or "redis".
type JobStoreConfig struct {
	Backend string `json:"backend" envconfig:"LEDGERLOAD_JOB_STORE_BACKEND"`
}

// ValidationConfig controls the commit policy of the persistence engine.
// The accounting-equation difference and per-row discrepancies are
// advisory unless Strict is set, in which case an equation imbalance
// above the tolerance blocks the commit.
type ValidationConfig struct {
	Strict           bool `json:"strict" envconfig:"LEDGERLOAD_VALIDATION_STRICT"`
	DiscrepancyLimit int  `json:"discrepancy_limit" envconfig:"LEDGERLOAD_VALIDATION_DISCREPANCY_LIMIT"`
}

// ParserConfig carries the spreadsheet layout variants. Cash-flow
// exports come in two shapes: data from row 1 and data from row 8.
type ParserConfig struct {
	CashFlowHeaderOffset int `json:"cash_flow_header_offset" envconfig:"LEDGERLOAD_PARSER_CASH_FLOW_HEADER_OFFSET"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"LEDGERLOAD_PROJECT_NAME"`
	Server      ServerConfig     `json:"server"`
	DataSource  DataSourceConfig `json:"data_source"`
	Redis       RedisConfig      `json:"redis"`
	JobStore    JobStoreConfig   `json:"job_store"`
	Validation  ValidationConfig `json:"validation"`
	Parser      ParserConfig     `json:"parser"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("ledgerload", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called ledgerload.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Ledgerload Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Server.UploadDir == "" {
		cnf.Server.UploadDir = "uploads"
	}

	switch cnf.JobStore.Backend {
	case "":
		cnf.JobStore.Backend = "postgres"
	case "postgres", "memory":
	case "redis":
		if cnf.Redis.Dns == "" {
			log.Println("Error: Redis DNS is empty but job store backend is redis.")
			return errors.New("redis DNS is required for the redis job store")
		}
	default:
		return errors.New("job store backend must be one of postgres, memory, redis")
	}

	if cnf.Validation.DiscrepancyLimit <= 0 {
		cnf.Validation.DiscrepancyLimit = DefaultDiscrepancyLimit
	}

	if cnf.Parser.CashFlowHeaderOffset < 0 {
		return errors.New("cash flow header offset cannot be negative")
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
