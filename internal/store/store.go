package store

var (
	client Factory
)

// Factory defines the worker's persistence interface: the single store this
// domain needs, PeerInfo records (spec.md §3 DATA MODEL). The HTTP
// front-end never constructs a Factory directly — it asks the worker for
// PeerInfo over the IPC channel (peer_get/peer_list), per the ownership
// rule recorded in DESIGN.md.
type Factory interface {
	Peers() PeerStore
	Close() error
}

// Client returns the store client instance.
func Client() Factory {
	return client
}

// SetClient sets the store client instance.
func SetClient(factory Factory) {
	client = factory
}
