package models

// RegistryEntry is one mutable entry in the storage network's registry.
// DataKey is hex-encoded and must match the deterministic tweak for the
// path it claims to represent.
type RegistryEntry struct {
	DataKey  string `json:"dataKey"`
	Data     []byte `json:"data"`
	Revision uint64 `json:"revision"`
}

// SignedRegistryEntry pairs an entry with its ed25519 signature.
type SignedRegistryEntry struct {
	Entry     RegistryEntry `json:"entry"`
	Signature []byte        `json:"signature"`
}
