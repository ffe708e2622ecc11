package types

import (
	"fmt"
)

// Weight is the authorization weight of an associated key or an action
// threshold. Zero is never stored.
type Weight uint8

// ActionType names one of the two thresholded action classes.
type ActionType uint8

const (
	ActionTypeDeployment ActionType = iota
	ActionTypeKeyManagement
)

// ActionTypes returns all action types in storage order.
func ActionTypes() []ActionType {
	return []ActionType{ActionTypeDeployment, ActionTypeKeyManagement}
}

func (a ActionType) String() string {
	switch a {
	case ActionTypeDeployment:
		return "deployment"
	case ActionTypeKeyManagement:
		return "key_management"
	}
	return fmt.Sprintf("action_type(%d)", uint8(a))
}

// ActionThresholds holds the weight required for each action class.
type ActionThresholds struct {
	Deployment    Weight `json:"deployment"`
	KeyManagement Weight `json:"key_management"`
}

// DefaultActionThresholds are the thresholds of a freshly created account.
func DefaultActionThresholds() ActionThresholds {
	return ActionThresholds{Deployment: 1, KeyManagement: 1}
}

func (t ActionThresholds) Get(kind ActionType) Weight {
	if kind == ActionTypeKeyManagement {
		return t.KeyManagement
	}
	return t.Deployment
}

func (t *ActionThresholds) Set(kind ActionType, value Weight) {
	if kind == ActionTypeKeyManagement {
		t.KeyManagement = value
		return
	}
	t.Deployment = value
}

// Validate checks the threshold range and that a key-management action,
// which is also a deployment, never needs less weight than a deployment.
func (t ActionThresholds) Validate() error {
	if t.Deployment == 0 {
		return fmt.Errorf("deployment threshold must be at least 1")
	}
	if t.KeyManagement == 0 {
		return fmt.Errorf("key management threshold must be at least 1")
	}
	if t.Deployment > t.KeyManagement {
		return fmt.Errorf("deployment threshold %d exceeds key management threshold %d", t.Deployment, t.KeyManagement)
	}
	return nil
}
