package database

import (
	"database/sql"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/DanielFlorido/ledgerload/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

// ConnectDB opens a Postgres connection and pings it with exponential
// backoff, so the service survives a database that is still starting.
func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}

	pingPolicy := backoff.NewExponentialBackOff()
	pingPolicy.MaxElapsedTime = 30 * time.Second
	err = backoff.Retry(func() error {
		pingErr := db.Ping()
		if pingErr != nil {
			logrus.WithError(pingErr).Warn("database not reachable yet, retrying")
		}
		return pingErr
	}, pingPolicy)
	if err != nil {
		logrus.WithError(err).Error("database connection error")
		return nil, err
	}

	return db, nil
}

// HealthCheck reports whether a connection can be established and a
// trivial query executed. It never panics; failures come back as a
// structured result.
type HealthCheck struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Type    string `json:"type,omitempty"`
}

func (d Datasource) TestConnection() HealthCheck {
	if err := d.Conn.Ping(); err != nil {
		return HealthCheck{Healthy: false, Error: err.Error(), Type: "connection"}
	}

	var one int
	if err := d.Conn.QueryRow(`SELECT 1`).Scan(&one); err != nil {
		return HealthCheck{Healthy: false, Error: err.Error(), Type: "query"}
	}

	return HealthCheck{Healthy: true}
}
