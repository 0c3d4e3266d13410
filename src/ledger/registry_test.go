package ledger

import (
	"context"
	"testing"

	"github.com/onemorebsmith/stx-clawbot/src/model"
)

func (tc *testContract) authorized(t *testing.T, bot model.Principal) bool {
	t.Helper()
	ok, err := tc.Registry.IsBotAuthorized(context.Background(), bot)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func TestAuthorizeAndRevoke(t *testing.T) {
	ctx := context.Background()
	tc := newTestContract(t)

	if tc.authorized(t, wallet2) {
		t.Fatal("fresh bot should not be authorized")
	}
	receipt, err := tc.Registry.AuthorizeBot(ctx, wallet1, wallet2)
	if err != nil {
		t.Fatal(err)
	}
	if receipt.Type != model.OperationAuthorizeBot || receipt.Recipient != wallet2 || receipt.Amount != 0 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if !tc.authorized(t, wallet2) {
		t.Fatal("bot should be authorized")
	}
	// idempotent
	if _, err := tc.Registry.AuthorizeBot(ctx, wallet1, wallet2); err != nil {
		t.Fatal(err)
	}
	if !tc.authorized(t, wallet2) {
		t.Fatal("bot should stay authorized")
	}

	if _, err := tc.Registry.RevokeBot(ctx, wallet1, wallet2); err != nil {
		t.Fatal(err)
	}
	if tc.authorized(t, wallet2) {
		t.Fatal("bot should be revoked")
	}
	if _, err := tc.Registry.RevokeBot(ctx, wallet1, wallet2); err != nil {
		t.Fatal(err)
	}
}

func TestRevokeNeverAuthorized(t *testing.T) {
	tc := newTestContract(t)
	if _, err := tc.Registry.RevokeBot(context.Background(), wallet1, wallet3); err != nil {
		t.Fatal(err)
	}
	if tc.authorized(t, wallet3) {
		t.Fatal("revoked bot reported as authorized")
	}
}

func TestAnyCallerMayFlipAnyBot(t *testing.T) {
	ctx := context.Background()
	tc := newTestContract(t)
	if _, err := tc.Registry.AuthorizeBot(ctx, wallet1, wallet3); err != nil {
		t.Fatal(err)
	}
	if _, err := tc.Registry.RevokeBot(ctx, wallet2, wallet3); err != nil {
		t.Fatal(err)
	}
	if tc.authorized(t, wallet3) {
		t.Fatal("revoke by a different caller should apply")
	}
}

func TestRegistryRejectsMalformedPrincipals(t *testing.T) {
	ctx := context.Background()
	tc := newTestContract(t)
	_, err := tc.Registry.AuthorizeBot(ctx, wallet1, "bot")
	expectKind(t, err, ErrInvalidPrincipal)
	_, err = tc.Registry.RevokeBot(ctx, "", wallet2)
	expectKind(t, err, ErrInvalidPrincipal)
	if tc.store.Len() != 0 {
		t.Fatal("rejected registry op wrote state")
	}
}

func TestBotSpend(t *testing.T) {
	ctx := context.Background()
	tc := newTestContract(t)
	tc.deposit(t, wallet2, 500)

	// unauthorized, whatever the balance
	_, err := tc.Ledger.BotSpend(ctx, wallet2, 100, wallet3)
	expectKind(t, err, ErrNotAuthorized)
	_, err = tc.Ledger.BotSpend(ctx, wallet2, 5000, wallet3)
	expectKind(t, err, ErrNotAuthorized)

	if _, err := tc.Registry.AuthorizeBot(ctx, wallet1, wallet2); err != nil {
		t.Fatal(err)
	}
	receipt, err := tc.Ledger.BotSpend(ctx, wallet2, 100, wallet3)
	if err != nil {
		t.Fatal(err)
	}
	if receipt.Type != model.OperationBotSpend || receipt.Amount != 100 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if a, b := tc.balance(t, wallet2), tc.balance(t, wallet3); a != 400 || b != 100 {
		t.Fatalf("expected 400/100 after bot spend, got %d/%d", a, b)
	}

	_, err = tc.Ledger.BotSpend(ctx, wallet2, 401, wallet3)
	expectKind(t, err, ErrInsufficientBalance)
	_, err = tc.Ledger.BotSpend(ctx, wallet2, 0, wallet3)
	expectKind(t, err, ErrInvalidAmount)

	if _, err := tc.Registry.RevokeBot(ctx, wallet1, wallet2); err != nil {
		t.Fatal(err)
	}
	_, err = tc.Ledger.BotSpend(ctx, wallet2, 1, wallet3)
	expectKind(t, err, ErrNotAuthorized)
	if a, b := tc.balance(t, wallet2), tc.balance(t, wallet3); a != 400 || b != 100 {
		t.Fatalf("rejected bot spends mutated balances: %d/%d", a, b)
	}
	if tc.totalDeposits(t) != 500 {
		t.Fatal("bot spend must not touch total deposits")
	}
}

func TestLedgerNeverTouchesRegistry(t *testing.T) {
	ctx := context.Background()
	tc := newTestContract(t)
	tc.deposit(t, wallet1, 100)
	if _, err := tc.Ledger.Transfer(ctx, wallet1, 50, wallet2); err != nil {
		t.Fatal(err)
	}
	if _, err := tc.Ledger.Withdraw(ctx, wallet1, 50); err != nil {
		t.Fatal(err)
	}
	for _, p := range []model.Principal{wallet1, wallet2} {
		if tc.authorized(t, p) {
			t.Fatalf("%s became authorized through a ledger op", p)
		}
	}
}
