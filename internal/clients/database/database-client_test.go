package database_client

import (
	"testing"

	"github.com/init-pkg/sheet-relay/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	pg := &config.Db{Driver: "postgres", Host: "db", Port: 5432, User: "relay", Password: "p@ss", Name: "sheets", SslMode: "disable"}
	assert.Equal(t, "postgres://relay:p%40ss@db:5432/sheets?sslmode=disable", DSN(pg))

	my := &config.Db{Driver: "mysql", Host: "db", Port: 3306, User: "relay", Password: "secret", Name: "sheets"}
	assert.Equal(t, "relay:secret@tcp(db:3306)/sheets?parseTime=true", DSN(my))
}

func TestDialector_RejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(&config.Db{Driver: "oracle"})
	assert.Error(t, err)
}
