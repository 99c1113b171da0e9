package main

import (
	"context"
	"fmt"
	"os"

	"github.com/magabrotheeeer/partner-portal/internal/cli"
	"github.com/magabrotheeeer/partner-portal/internal/config"
	"github.com/magabrotheeeer/partner-portal/internal/services/admin"
	"github.com/magabrotheeeer/partner-portal/internal/storage/repository"
)

func main() {
	root := cli.NewRootCmd(func(_ context.Context) (cli.Admin, func() error, error) {
		cfg := config.MustLoad()
		db, err := repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, nil, err
		}
		return admin.New(db), db.Close, nil
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
