package main

import (
	"errors"
	"flag"
	"net/url"

	"course_commerce/internal/pkg/config"
	"course_commerce/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "migrations", "migration files directory")
	down := flag.Int("down", 0, "roll back N steps instead of migrating up")
	force := flag.Int("force", -1, "mark VERSION as applied and clear the dirty flag")
	flag.Parse()

	config.LoadConfig()
	if err := logger.InitLogger(config.GlobalConfig.App.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Named("migrate")

	m, err := migrate.New("file://"+*dir, dsn(config.GlobalConfig.Database))
	if err != nil {
		log.Fatal("open migrations failed", zap.Error(err))
	}
	defer m.Close()

	switch {
	case *force >= 0:
		err = m.Force(*force)
	case *down > 0:
		err = m.Steps(-*down)
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			log.Fatal("database is dirty, fix the failed migration then rerun with -force",
				zap.Int("version", dirty.Version))
		}
		log.Fatal("migration failed", zap.Error(err))
	}

	version, dirty, _ := m.Version()
	log.Info("migration finished", zap.Uint("version", version), zap.Bool("dirty", dirty))
}

func dsn(cfg config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
