package keeper

import (
	"context"
	"errors"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// Execute runs one entry point call against the owner's account. The call is
// applied atomically: on any error the store is left untouched.
func (k Keeper) Execute(ctx sdk.Context, call types.Call) error {
	msg, err := types.DecodeMsg(call.EntryPoint, call.Args)
	if err != nil {
		k.logger.Debug("Rejected malformed call",
			"entry_point", call.EntryPoint,
			"owner", call.Owner.String(),
			"error", err,
		)
		return err
	}

	auth := types.NewAuthorization(call.Signers...)
	if err := k.AuthorizeDeployment(ctx, call.Owner, auth); err != nil {
		k.logger.Debug("Rejected unauthorized call",
			"entry_point", call.EntryPoint,
			"owner", call.Owner.String(),
			"error", err,
		)
		return err
	}

	cacheCtx, writeCache := ctx.CacheContext()
	if err := k.dispatch(cacheCtx, k.AccountStore(call.Owner), auth, msg); err != nil {
		if errors.Is(err, types.ErrDuplicateKey) {
			k.logger.Error("Call aborted by key set desynchronization",
				"entry_point", call.EntryPoint,
				"owner", call.Owner.String(),
				"error", err,
			)
		} else {
			k.logger.Debug("Call rejected",
				"entry_point", call.EntryPoint,
				"owner", call.Owner.String(),
				"error", err,
			)
		}
		return err
	}
	writeCache()

	signers := make([]string, 0, len(auth.Keys()))
	for _, signer := range auth.Keys() {
		signers = append(signers, signer.String())
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCall,
			sdk.NewAttribute(types.AttributeKeyEntryPoint, msg.EntryPoint()),
			sdk.NewAttribute(types.AttributeKeyOwner, call.Owner.String()),
			sdk.NewAttribute(types.AttributeKeySigners, strings.Join(signers, ",")),
		),
	)
	k.logger.Info("Keys manager call executed",
		"entry_point", msg.EntryPoint(),
		"owner", call.Owner.String(),
		"signers", len(signers),
	)
	return nil
}

func (k Keeper) dispatch(ctx context.Context, store types.AccountStore, auth types.Authorization, msg types.Msg) error {
	switch msg := msg.(type) {
	case *types.MsgSetKeyWeight:
		return k.SetKeyWeight(ctx, store, auth, msg.Account, msg.Weight)
	case *types.MsgSetThreshold:
		return k.SetThreshold(ctx, store, auth, msg.Kind, msg.Weight)
	case *types.MsgSetAll:
		return k.SetAll(ctx, store, auth, msg.DeploymentThreshold, msg.KeyManagementThreshold, msg.Accounts, msg.Weights)
	default:
		return errorsmod.Wrapf(types.ErrUnknownAPICommand, "unhandled message %T", msg)
	}
}
