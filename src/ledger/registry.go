package ledger

import (
	"context"

	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/state"
)

// Registry owns the bot authorization flags. Any caller may flip any bot;
// there is no owner scoping.
type Registry struct {
	exec     *executor
	recorder *recorder
}

// AuthorizeBot marks bot as authorized. Idempotent.
func (r *Registry) AuthorizeBot(ctx context.Context, caller, bot model.Principal) (model.Receipt, error) {
	err := r.setFlag(ctx, caller, bot, true)
	return r.recorder.finish(ctx, model.OperationAuthorizeBot, caller, 0, bot, err), err
}

// RevokeBot clears the flag. Revoking a never-authorized bot succeeds.
func (r *Registry) RevokeBot(ctx context.Context, caller, bot model.Principal) (model.Receipt, error) {
	err := r.setFlag(ctx, caller, bot, false)
	return r.recorder.finish(ctx, model.OperationRevokeBot, caller, 0, bot, err), err
}

func (r *Registry) IsBotAuthorized(ctx context.Context, bot model.Principal) (bool, error) {
	return r.isAuthorized(ctx, r.exec.read(), bot)
}

func (r *Registry) isAuthorized(ctx context.Context, v *state.View, bot model.Principal) (bool, error) {
	return getFlag(ctx, v, BotKey(bot))
}

func (r *Registry) setFlag(ctx context.Context, caller, bot model.Principal, flag bool) error {
	return r.exec.run(ctx, func(v *state.View) error {
		if err := validatePrincipal("caller", caller); err != nil {
			return err
		}
		if err := validatePrincipal("bot", bot); err != nil {
			return err
		}
		putFlag(v, BotKey(bot), flag)
		return nil
	})
}
