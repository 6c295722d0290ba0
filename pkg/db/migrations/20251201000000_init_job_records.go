package migrations

import (
	"context"
	"fmt"

	"github.com/quatton/qjob/pkg/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Print(" [up migration] ")

		_, err := db.NewRaw("CREATE SCHEMA IF NOT EXISTS qjob").Exec(ctx)
		if err != nil {
			return err
		}

		_, err = db.NewCreateTable().
			Model((*models.JobRecord)(nil)).
			IfNotExists().
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Print(" [down migration] ")

		_, err := db.NewDropTable().Model((*models.JobRecord)(nil)).IfExists().Exec(ctx)
		if err != nil {
			return err
		}

		_, err = db.NewRaw("DROP SCHEMA IF EXISTS qjob").Exec(ctx)
		return err
	})
}
