package credentials

import (
	"fmt"

	"github.com/oszuidwest/zwfm-directviewer/internal/config"
	"github.com/oszuidwest/zwfm-directviewer/internal/database"
)

// Open builds the store selected by cfg. The returned close function releases
// any database connection and is never nil.
func Open(cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Credentials.Store {
	case config.CredentialStoreMemory:
		return NewMemoryStore(), noop, nil
	case config.CredentialStoreSQL:
		sealer, err := NewSealer(cfg.TokenKey())
		if err != nil {
			return nil, noop, err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		if err := database.Migrate(db, cfg.Database.Driver); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return NewSQLStore(db, sealer), db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported credential store %q", cfg.Credentials.Store)
	}
}
