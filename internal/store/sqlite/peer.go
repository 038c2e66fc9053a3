package sqlite

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/model"
)

type peers struct {
	db *gorm.DB
}

func newPeers(ds *datastore) *peers {
	return &peers{db: ds.db}
}

func (s *peers) Create(ctx context.Context, peer *model.PeerInfo) error {
	if peer == nil {
		return errors.WithCode(code.ErrBind, "peer is nil")
	}
	if err := s.db.WithContext(ctx).Create(peer).Error; err != nil {
		if isUniqueConstraintError(err) {
			return errors.WithCode(code.ErrPeerAlreadyExists, "%s", err.Error())
		}
		return errors.WithCode(code.ErrDatabase, "%s", err.Error())
	}
	return nil
}

func (s *peers) Get(ctx context.Context, asn int64) (*model.PeerInfo, error) {
	var peer model.PeerInfo
	if err := s.db.WithContext(ctx).Where("asn = ?", asn).First(&peer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithCode(code.ErrPeerNotFound, "%s", err.Error())
		}
		return nil, errors.WithCode(code.ErrDatabase, "%s", err.Error())
	}
	return &peer, nil
}

func (s *peers) Delete(ctx context.Context, asn int64) error {
	if err := s.db.WithContext(ctx).Where("asn = ?", asn).Delete(&model.PeerInfo{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.WithCode(code.ErrDatabase, "%s", err.Error())
	}
	return nil
}

func (s *peers) List(ctx context.Context) ([]*model.PeerInfo, error) {
	var list []*model.PeerInfo
	if err := s.db.WithContext(ctx).Order("asn ASC").Find(&list).Error; err != nil {
		return nil, errors.WithCode(code.ErrDatabase, "%s", err.Error())
	}
	return list, nil
}

// isUniqueConstraintError checks if the error is a unique constraint
// violation. SQLite reports these with a handful of distinct message
// shapes depending on the driver.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	uniquePatterns := []string{
		"unique constraint failed",
		"duplicate entry",
		"constraint failed",
		"sqlite_constraint_unique",
	}
	for _, pattern := range uniquePatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
