package types

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// AccountHashLength is the size of an account identifier in bytes.
const AccountHashLength = 32

// accountHashPrefix is the formatted-string prefix accepted by AccountHashFromHex.
const accountHashPrefix = "account-hash-"

// AccountHash identifies an account or one of its associated keys.
type AccountHash [AccountHashLength]byte

// AccountHashFromBytes copies bz into an AccountHash.
func AccountHashFromBytes(bz []byte) (AccountHash, error) {
	var out AccountHash
	if len(bz) != AccountHashLength {
		return out, fmt.Errorf("account hash must be %d bytes, got %d", AccountHashLength, len(bz))
	}
	copy(out[:], bz)
	return out, nil
}

// AccountHashFromHex parses a hex account hash, optionally prefixed with
// "account-hash-".
func AccountHashFromHex(s string) (AccountHash, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), accountHashPrefix)
	bz, err := hex.DecodeString(s)
	if err != nil {
		return AccountHash{}, fmt.Errorf("invalid account hash %q: %w", s, err)
	}
	return AccountHashFromBytes(bz)
}

// AccountHashFromPublicKey derives the account hash of an ed25519 public key
// as blake2b-256("ed25519" || 0x00 || pubkey).
func AccountHashFromPublicKey(pub ed25519.PublicKey) AccountHash {
	preimage := make([]byte, 0, len("ed25519")+1+len(pub))
	preimage = append(preimage, "ed25519"...)
	preimage = append(preimage, 0x00)
	preimage = append(preimage, pub...)
	return AccountHash(blake2b.Sum256(preimage))
}

func (a AccountHash) Bytes() []byte {
	out := make([]byte, AccountHashLength)
	copy(out, a[:])
	return out
}

func (a AccountHash) Empty() bool {
	return a == AccountHash{}
}

func (a AccountHash) String() string {
	return hex.EncodeToString(a[:])
}

// Formatted returns the "account-hash-<hex>" form.
func (a AccountHash) Formatted() string {
	return accountHashPrefix + a.String()
}

func (a AccountHash) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountHash) UnmarshalText(text []byte) error {
	parsed, err := AccountHashFromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AssociatedKey is a key with authorization weight over an account.
type AssociatedKey struct {
	Account AccountHash `json:"account"`
	Weight  Weight      `json:"weight"`
}

// Account is a read-only view of an account's key set and thresholds.
type Account struct {
	Owner            AccountHash      `json:"owner"`
	AssociatedKeys   []AssociatedKey  `json:"associated_keys"`
	ActionThresholds ActionThresholds `json:"action_thresholds"`
}

// NewAccount returns the initial state of a freshly created account: the
// owner as the only associated key with weight 1 and both thresholds at 1.
func NewAccount(owner AccountHash) Account {
	return Account{
		Owner:            owner,
		AssociatedKeys:   []AssociatedKey{{Account: owner, Weight: 1}},
		ActionThresholds: DefaultActionThresholds(),
	}
}

// TotalWeight sums the weights of all associated keys.
func (a Account) TotalWeight() uint64 {
	var total uint64
	for _, key := range a.AssociatedKeys {
		total += uint64(key.Weight)
	}
	return total
}

// Weight returns the weight of key, or 0 if key is not associated.
func (a Account) Weight(key AccountHash) Weight {
	for _, assoc := range a.AssociatedKeys {
		if assoc.Account == key {
			return assoc.Weight
		}
	}
	return 0
}

// SortAssociatedKeys orders keys by account bytes.
func SortAssociatedKeys(keys []AssociatedKey) {
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Account[:], keys[j].Account[:]) < 0
	})
}

// Validate checks the account against the global key-set invariants.
func (a Account) Validate(maxKeys uint32) error {
	if a.Owner.Empty() {
		return fmt.Errorf("account owner cannot be empty")
	}
	if err := a.ActionThresholds.Validate(); err != nil {
		return fmt.Errorf("account %s: %w", a.Owner, err)
	}
	if uint64(len(a.AssociatedKeys)) > uint64(maxKeys) {
		return fmt.Errorf("account %s has %d associated keys, max is %d", a.Owner, len(a.AssociatedKeys), maxKeys)
	}

	seen := make(map[AccountHash]struct{}, len(a.AssociatedKeys))
	for _, key := range a.AssociatedKeys {
		if key.Weight == 0 {
			return fmt.Errorf("account %s: associated key %s has zero weight", a.Owner, key.Account)
		}
		if _, exists := seen[key.Account]; exists {
			return fmt.Errorf("account %s: duplicate associated key %s", a.Owner, key.Account)
		}
		seen[key.Account] = struct{}{}
	}

	total := a.TotalWeight()
	for _, kind := range ActionTypes() {
		if uint64(a.ActionThresholds.Get(kind)) > total {
			return fmt.Errorf("account %s: %s threshold %d exceeds total key weight %d",
				a.Owner, kind, a.ActionThresholds.Get(kind), total)
		}
	}
	return nil
}
