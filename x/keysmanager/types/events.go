package types

const (
	EventTypeCall          = "keys_manager_call"
	EventTypeKeyAdded      = "associated_key_added"
	EventTypeKeyUpdated    = "associated_key_updated"
	EventTypeKeyRemoved    = "associated_key_removed"
	EventTypeThresholdSet  = "action_threshold_set"
	EventTypeAccountCreate = "account_created"

	AttributeKeyOwner      = "owner"
	AttributeKeyAccount    = "account"
	AttributeKeyWeight     = "weight"
	AttributeKeyActionType = "action_type"
	AttributeKeyEntryPoint = "entry_point"
	AttributeKeySigners    = "signers"
)
