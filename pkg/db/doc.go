// Package db opens PostgreSQL connections as *sqlx.DB over the pgx stdlib
// driver and applies goose migrations.
//
//	conn, err := db.Open(ctx, db.Config{DSN: os.Getenv("DATABASE_URL")})
//	err = db.Migrate(ctx, conn.DB, sqlstore.Migrations, "migrations", "", logger)
package db
