package store

import (
	"context"

	"github.com/dn42/autopeerd/internal/pkg/model"
)

// PeerStore defines storage operations for PeerInfo records.
type PeerStore interface {
	Create(ctx context.Context, peer *model.PeerInfo) error
	Get(ctx context.Context, asn int64) (*model.PeerInfo, error)
	Delete(ctx context.Context, asn int64) error
	List(ctx context.Context) ([]*model.PeerInfo, error)
}
