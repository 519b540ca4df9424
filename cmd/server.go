package main

import (
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/DanielFlorido/ledgerload/api"
)

func serveAPI(app *appInstance) error {
	router := api.NewAPI(app.service).Router()

	server := &http.Server{
		Addr:              ":" + app.cnf.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("%s listening on :%s", app.cnf.ProjectName, app.cnf.Server.Port)
	return server.ListenAndServe()
}

func serverCommands(app *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start ledgerload server",
		Run: func(cmd *cobra.Command, args []string) {
			if err := serveAPI(app); err != nil {
				log.Fatal(err)
			}
		},
	}
	return cmd
}
