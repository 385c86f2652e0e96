package database_client

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/init-pkg/sheet-relay/internal/config"
	gorm_mysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the configured database lazily; the first query surfaces connection errors.
func New(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	db := cfg.Infrastructure.Db

	dialector, err := Dialector(&db)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", db.Driver, err)
	}

	log.Info("database configured", "driver", db.Driver, "host", db.Host, "name", db.Name)
	return conn, nil
}

func Dialector(db *config.Db) (gorm.Dialector, error) {
	switch db.Driver {
	case "postgres":
		return postgres.Open(DSN(db)), nil
	case "mysql":
		return gorm_mysql.New(gorm_mysql.Config{
			DSN:                       DSN(db),
			SkipInitializeWithVersion: true,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", db.Driver)
	}
}

// DSN renders the connection string understood by the driver's database/sql implementation.
func DSN(db *config.Db) string {
	addr := net.JoinHostPort(db.Host, strconv.Itoa(db.Port))

	if db.Driver == "mysql" {
		c := mysql.NewConfig()
		c.User = db.User
		c.Passwd = db.Password
		c.Net = "tcp"
		c.Addr = addr
		c.DBName = db.Name
		c.ParseTime = true
		return c.FormatDSN()
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     addr,
		Path:     "/" + db.Name,
		RawQuery: url.Values{"sslmode": {db.SslMode}}.Encode(),
	}
	return u.String()
}
