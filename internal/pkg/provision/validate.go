package provision

import "github.com/dn42/autopeerd/internal/pkg/model"

// ValidatePeer runs the §4.5 validation rules before any config rendering.
// The rules themselves live on the model so the HTTP layer can also
// validate eagerly before ever reaching the worker; the engine calls it
// again here since it is the actual enforcement point spec.md §4.5 names.
func ValidatePeer(peer *model.PeerInfo) error {
	return peer.Dn42Validate()
}

// ValidatePeers validates every peer in peers, stopping at the first failure.
func ValidatePeers(peers []*model.PeerInfo) error {
	for _, p := range peers {
		if err := ValidatePeer(p); err != nil {
			return err
		}
	}
	return nil
}
