package config

import (
	"context"

	"github.com/adrianliechti/furnish/pkg/store"
	"github.com/adrianliechti/furnish/pkg/store/sqlite"
)

type storeConfig struct {
	Path string `yaml:"path"`

	Accounts []accountConfig `yaml:"accounts"`
}

type accountConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	Tokens int  `yaml:"tokens"`
	Admin  bool `yaml:"admin"`
}

func (cfg *Config) registerStore(f *configFile) error {
	if f.Store == nil {
		return nil
	}

	client, err := sqlite.New(f.Store.Path)

	if err != nil {
		return err
	}

	accounts := make([]store.Account, 0, len(f.Store.Accounts))

	for _, a := range f.Store.Accounts {
		accounts = append(accounts, store.Account{
			Username: a.Username,
			Password: a.Password,

			Tokens: a.Tokens,
			Admin:  a.Admin,
		})
	}

	if err := client.Seed(context.Background(), accounts); err != nil {
		return err
	}

	cfg.Store = client

	return nil
}
