package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Print(" [up migration] ")

		_, err := db.NewRaw(`CREATE INDEX IF NOT EXISTS qjob_job_records_user_idx ON qjob.job_records ("user", submit)`).Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Print(" [down migration] ")

		_, err := db.NewRaw("DROP INDEX IF EXISTS qjob.qjob_job_records_user_idx").Exec(ctx)
		return err
	})
}
