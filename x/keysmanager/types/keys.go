package types

const (
	// ModuleName is the keys manager module namespace.
	ModuleName = "keysmanager"

	// StoreKey is the module KV store key.
	StoreKey = ModuleName
)

var (
	// AccountKeyPrefix stores the set of known account owners.
	AccountKeyPrefix = []byte{0x01}

	// AssociatedKeyPrefix stores (owner, key) -> weight.
	AssociatedKeyPrefix = []byte{0x02}

	// ActionThresholdKeyPrefix stores (owner, action type) -> threshold.
	ActionThresholdKeyPrefix = []byte{0x03}

	// ParamsKey stores the module params.
	ParamsKey = []byte{0x04}
)
