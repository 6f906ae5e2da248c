// Package store holds the persistent session stores: SQLite for a single
// node and Redis for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/kilianp07/studyplan/core/factory"
	corestore "github.com/kilianp07/studyplan/core/store"
)

var registry = factory.NewRegistry[corestore.Store]()

func init() {
	_ = registry.Register("memory", func(map[string]any) (corestore.Store, error) {
		return corestore.NewMemoryStore(), nil
	})
	_ = registry.Register("sqlite", func(conf map[string]any) (corestore.Store, error) {
		c := struct {
			Path string `json:"path"`
		}{Path: "studyplan.db"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
	_ = registry.Register("redis", func(conf map[string]any) (corestore.Store, error) {
		c := struct {
			Addr        string        `json:"addr"`
			Password    string        `json:"password"`
			DB          int           `json:"db"`
			DialTimeout time.Duration `json:"dial_timeout"`
		}{Addr: "localhost:6379", DialTimeout: 5 * time.Second}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.DialTimeout)
		defer cancel()
		return DialRedis(ctx, c.Addr, c.Password, c.DB)
	})
}

// New creates the store described by cfg. An empty type selects memory.
func New(cfg factory.ModuleConfig) (corestore.Store, error) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}
	return registry.Create(cfg)
}
