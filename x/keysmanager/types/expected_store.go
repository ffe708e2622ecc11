package types

import (
	"context"
)

// AccountStore is the host side of one account's key set and thresholds.
//
// Each mutation returns nil, exactly one value of its failure type
// (AddKeyFailure, UpdateKeyFailure, RemoveKeyFailure, SetThresholdFailure),
// or a storage fault. Weights passed in are always strictly positive.
type AccountStore interface {
	AddAssociatedKey(ctx context.Context, auth Authorization, account AccountHash, weight Weight) error
	UpdateAssociatedKey(ctx context.Context, auth Authorization, account AccountHash, weight Weight) error
	RemoveAssociatedKey(ctx context.Context, auth Authorization, account AccountHash) error
	SetActionThreshold(ctx context.Context, auth Authorization, kind ActionType, value Weight) error
}

// JournaledStore is an AccountStore that can undo its own writes. Hosts that
// run outside an sdk.Context implement it so that a failed batch leaves no
// partial changes behind.
type JournaledStore interface {
	AccountStore
	// Checkpoint starts a journal. Exactly one of commit or rollback is
	// called afterwards.
	Checkpoint(ctx context.Context) (commit func(), rollback func())
}

// Authorization is the set of keys that signed the current call.
type Authorization struct {
	keys []AccountHash
}

// NewAuthorization deduplicates signers, keeping first-seen order.
func NewAuthorization(signers ...AccountHash) Authorization {
	seen := make(map[AccountHash]struct{}, len(signers))
	keys := make([]AccountHash, 0, len(signers))
	for _, signer := range signers {
		if _, ok := seen[signer]; ok {
			continue
		}
		seen[signer] = struct{}{}
		keys = append(keys, signer)
	}
	return Authorization{keys: keys}
}

func (a Authorization) Keys() []AccountHash {
	out := make([]AccountHash, len(a.keys))
	copy(out, a.keys)
	return out
}

func (a Authorization) Empty() bool {
	return len(a.keys) == 0
}

// Call is one top-level invocation of a keys manager entry point on behalf
// of Owner, signed by Signers.
type Call struct {
	Owner      AccountHash   `json:"owner"`
	EntryPoint string        `json:"entry_point"`
	Args       RuntimeArgs   `json:"args"`
	Signers    []AccountHash `json:"signers"`
}
