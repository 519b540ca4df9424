package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/DanielFlorido/ledgerload/config"
)

// configCommands prints the effective configuration after file and
// environment overrides.
func configCommands(_ *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "show effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Fetch()
			if err != nil {
				log.Fatalf("Error getting config: %v\n", err)
			}

			data, err := json.MarshalIndent(cfg, "", "    ")
			if err != nil {
				log.Fatalf("Error printing config: %v\n", err)
			}

			fmt.Println(string(data))
		},
	}
	return cmd
}
