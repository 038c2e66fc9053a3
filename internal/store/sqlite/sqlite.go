// Package sqlite implements internal/store.Factory on top of gorm +
// glebarez/sqlite (pure Go, no cgo), generalized from the teacher's
// User/WGPeer datastore to the single PeerInfo entity this domain needs.
package sqlite

import (
	"sync"

	"gorm.io/gorm"

	"github.com/HappyLadySauce/errors"
	"k8s.io/klog/v2"

	"github.com/dn42/autopeerd/internal/pkg/db"
	"github.com/dn42/autopeerd/internal/pkg/model"
	"github.com/dn42/autopeerd/internal/store"
	"github.com/dn42/autopeerd/pkg/options"
)

type datastore struct {
	db *gorm.DB
}

func (ds *datastore) Peers() store.PeerStore {
	return newPeers(ds)
}

func (ds *datastore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql db")
	}

	return sqlDB.Close()
}

var (
	sqliteFactory store.Factory
	once          sync.Once
)

// GetSqliteFactoryOr returns the process-wide PeerInfo store, opening and
// migrating the database the first time it is called.
func GetSqliteFactoryOr(opts *options.RegistryOptions) (store.Factory, error) {
	if opts == nil {
		opts = options.NewRegistryOptions()
	}

	var err error
	var dbIns *gorm.DB
	once.Do(func() {
		dbOpts := &db.Options{
			DataSourceName: opts.DataSourceName(),
		}
		dbIns, err = db.New(dbOpts)
		if err != nil {
			klog.V(1).InfoS("failed to create sqlite database", "dataSource", dbOpts.DataSourceName, "error", err)
			err = errors.Wrap(err, "failed to create sqlite db with data source")
			return
		}

		if err = dbIns.AutoMigrate(&model.PeerInfo{}); err != nil {
			klog.V(1).InfoS("failed to auto migrate database schema", "dataSource", dbOpts.DataSourceName, "error", err)
			err = errors.Wrap(err, "failed to auto migrate database schema")
			return
		}
		klog.V(1).InfoS("database schema migrated successfully", "dataSource", dbOpts.DataSourceName)

		sqliteFactory = &datastore{dbIns}
	})

	if sqliteFactory == nil {
		if err != nil {
			return nil, errors.Wrap(err, "failed to get sqlite factory")
		}
		return nil, errors.New("failed to get sqlite factory: sqliteFactory is nil but no error was returned")
	}

	return sqliteFactory, nil
}
