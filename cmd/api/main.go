package main

import (
	"context"
	"log"
	"os"

	"portfoliohub/cmd"
	"portfoliohub/internal/util"
)

func main() {
	secrets, err := util.LoadSecrets()
	if err != nil {
		log.Fatal(err)
	}

	apiHandler, err := cmd.InitializeDependenciesFromSecrets(context.Background(), *secrets)
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	apiHandler.Logger.Infow("starting api", "commitHash", os.Getenv("commit_hash"), "port", secrets.Port)

	if secrets.Refresh.Cron != "" {
		scheduler, err := cmd.ScheduleWatchlistRefresh(apiHandler, secrets.Refresh.Cron)
		if err != nil {
			log.Fatal(err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	err = apiHandler.StartApi(secrets.Port)
	if err != nil {
		log.Fatal(err)
	}
}
