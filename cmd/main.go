package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/DanielFlorido/ledgerload"
	"github.com/DanielFlorido/ledgerload/config"
	"github.com/DanielFlorido/ledgerload/database"
	"github.com/DanielFlorido/ledgerload/jobs"
)

// CLI wraps the root cobra command.
type CLI struct {
	cmd *cobra.Command
}

// appInstance holds the service and its configuration, shared by the
// subcommands after preRun wires them up.
type appInstance struct {
	service *ledgerload.Ledgerload
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

func preRun(app *appInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config ", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupService(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.service = service
		app.cnf = cnf
		return nil
	}
}

func setupService(cfg *config.Configuration) (*ledgerload.Ledgerload, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	store, err := jobs.NewStore(cfg, db)
	if err != nil {
		return nil, fmt.Errorf("error creating job store: %v", err)
	}

	return ledgerload.NewLedgerload(db, store)
}

func NewCLI() *CLI {
	var configFile string
	app := &appInstance{}

	var rootCmd = &cobra.Command{
		Use:   "ledgerload",
		Short: "Spreadsheet accounting-export ingestion service",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./ledgerload.json", "Configuration file for ledgerload")
	rootCmd.PersistentPreRunE = preRun(app, &configFile)

	rootCmd.AddCommand(serverCommands(app))
	rootCmd.AddCommand(migrateCommands(app))
	rootCmd.AddCommand(configCommands(app))

	return &CLI{cmd: rootCmd}
}

func (c CLI) executeCLI() {
	if err := c.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
