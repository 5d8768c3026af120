package app

import (
	"strings"

	"github.com/kugesan/eduquest/internal/store"
	"github.com/kugesan/eduquest/internal/store/postgres"
	"github.com/kugesan/eduquest/internal/store/sqlite"
)

func NewStore(dsn string) (store.Store, error) {
	if strings.HasPrefix(dsn, "postgres") {
		return postgres.NewPostgresStore(dsn)
	}
	return sqlite.NewSQLiteStore(dsn)
}
