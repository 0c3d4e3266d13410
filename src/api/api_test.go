package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/onemorebsmith/stx-clawbot/src/auth"
	"github.com/onemorebsmith/stx-clawbot/src/common"
	"github.com/onemorebsmith/stx-clawbot/src/custody"
	"github.com/onemorebsmith/stx-clawbot/src/ledger"
	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/state"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	wallet1 model.Principal = "ST1SJ3DTE5DN7X54YDH5D64R3BCB6A2AG2ZQ8YPD5"
	wallet2 model.Principal = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"
	wallet3 model.Principal = "ST2JHG361ZXG51QTKY2NQCVBPPRRE2KZB1HR05NNC"

	contractAddress = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM.clawbot"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryDeduper struct {
	lock sync.Mutex
	seen map[string]bool
}

func (md *memoryDeduper) Claim(_ context.Context, caller, requestId string) (bool, error) {
	md.lock.Lock()
	defer md.lock.Unlock()
	if md.seen[caller+":"+requestId] {
		return false, nil
	}
	md.seen[caller+":"+requestId] = true
	return true, nil
}

func (md *memoryDeduper) Release(_ context.Context, caller, requestId string) error {
	md.lock.Lock()
	delete(md.seen, caller+":"+requestId)
	md.lock.Unlock()
	return nil
}

type testServer struct {
	*Server
	issuer *auth.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := common.ConfigureZap(zap.WarnLevel, "")
	journal := ledger.NewMemoryJournal()
	store := state.NewMemoryStore()
	contract := ledger.NewContract(store, custody.NewVault(store, false, logger), journal, logger)
	issuer, err := auth.NewIssuer("api-test-secret")
	require.NoError(t, err)
	deduper := &memoryDeduper{seen: map[string]bool{}}
	srv := NewServer(contract, journal, issuer, deduper, Info{ContractAddress: contractAddress, ContractName: "clawbot", Network: "devnet"}, logger)
	return &testServer{Server: srv, issuer: issuer}
}

type decoded struct {
	Ok      bool            `json:"ok"`
	Value   json.RawMessage `json:"value"`
	Receipt *model.Receipt  `json:"receipt"`
	Error   string          `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path string, caller model.Principal, body any, headers ...string) (int, decoded) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		token, err := ts.issuer.Issue(caller, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)

	var out decoded
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func (ts *testServer) balance(t *testing.T, p model.Principal) uint64 {
	t.Helper()
	code, out := ts.do(t, http.MethodGet, "/v1/balance/"+p.String(), "", nil)
	require.Equal(t, http.StatusOK, code)
	var value struct {
		Balance uint64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(out.Value, &value))
	return value.Balance
}

func TestDepositWithdrawTransfer(t *testing.T) {
	ts := newTestServer(t)

	code, out := ts.do(t, http.MethodPost, "/v1/deposit", wallet1, gin.H{"amount": 1000})
	require.Equal(t, http.StatusOK, code)
	require.True(t, out.Ok)
	require.NotNil(t, out.Receipt)
	require.Equal(t, model.OperationDeposit, out.Receipt.Type)
	require.Equal(t, wallet1, out.Receipt.Caller)
	require.JSONEq(t, "1000", string(out.Value))

	code, _ = ts.do(t, http.MethodPost, "/v1/withdraw", wallet1, gin.H{"amount_stx": "0.0005"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, uint64(500), ts.balance(t, wallet1))

	code, _ = ts.do(t, http.MethodPost, "/v1/transfer", wallet1, gin.H{"amount": 300, "recipient": wallet2})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, uint64(200), ts.balance(t, wallet1))
	require.Equal(t, uint64(300), ts.balance(t, wallet2))

	code, out = ts.do(t, http.MethodGet, "/v1/total-deposits", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(out.Value), `"total":1000`)
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/v1/deposit", wallet1, gin.H{"amount": 100})

	cases := []struct {
		name   string
		path   string
		caller model.Principal
		body   any
		status int
		kind   string
	}{
		{"zero amount", "/v1/deposit", wallet1, gin.H{"amount": 0}, http.StatusBadRequest, ledger.KindInvalidAmount},
		{"negative amount", "/v1/deposit", wallet1, gin.H{"amount": -5}, http.StatusBadRequest, ledger.KindInvalidAmount},
		{"bad stx amount", "/v1/deposit", wallet1, gin.H{"amount_stx": "lots"}, http.StatusBadRequest, ledger.KindInvalidAmount},
		{"missing amount", "/v1/withdraw", wallet1, gin.H{}, http.StatusBadRequest, ledger.KindInvalidAmount},
		{"overdraw", "/v1/withdraw", wallet1, gin.H{"amount": 101}, http.StatusConflict, ledger.KindInsufficientBalance},
		{"bad recipient", "/v1/transfer", wallet1, gin.H{"amount": 1, "recipient": "bob"}, http.StatusBadRequest, ledger.KindInvalidPrincipal},
		{"unauthorized bot", "/v1/bot-spend", wallet1, gin.H{"amount": 1, "recipient": wallet2}, http.StatusForbidden, ledger.KindNotAuthorized},
		{"bad bot", "/v1/authorize-bot", wallet1, gin.H{"bot": "robot"}, http.StatusBadRequest, ledger.KindInvalidPrincipal},
		{"no token", "/v1/deposit", "", gin.H{"amount": 1}, http.StatusUnauthorized, KindUnauthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, out := ts.do(t, http.MethodPost, tc.path, tc.caller, tc.body)
			require.Equal(t, tc.status, code)
			require.False(t, out.Ok)
			require.Equal(t, tc.kind, out.Error)
		})
	}
	require.Equal(t, uint64(100), ts.balance(t, wallet1))
}

func TestBotFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/v1/deposit", wallet2, gin.H{"amount": 500})

	code, _ := ts.do(t, http.MethodPost, "/v1/authorize-bot", wallet1, gin.H{"bot": wallet2})
	require.Equal(t, http.StatusOK, code)

	code, out := ts.do(t, http.MethodGet, "/v1/bots/"+wallet2.String(), "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(out.Value), `"authorized":true`)

	code, _ = ts.do(t, http.MethodPost, "/v1/bot-spend", wallet2, gin.H{"amount": 100, "recipient": wallet3})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, uint64(400), ts.balance(t, wallet2))
	require.Equal(t, uint64(100), ts.balance(t, wallet3))

	code, _ = ts.do(t, http.MethodPost, "/v1/revoke-bot", wallet1, gin.H{"bot": wallet2})
	require.Equal(t, http.StatusOK, code)
	code, out = ts.do(t, http.MethodPost, "/v1/bot-spend", wallet2, gin.H{"amount": 100, "recipient": wallet3})
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, ledger.KindNotAuthorized, out.Error)
}

func TestDuplicateRequestId(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, http.MethodPost, "/v1/deposit", wallet1, gin.H{"amount": 10}, requestIdHeader, "req-1")
	require.Equal(t, http.StatusOK, code)
	code, out := ts.do(t, http.MethodPost, "/v1/deposit", wallet1, gin.H{"amount": 10}, requestIdHeader, "req-1")
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, KindDuplicateRequest, out.Error)
	require.Equal(t, uint64(10), ts.balance(t, wallet1))

	// ids are per caller
	code, _ = ts.do(t, http.MethodPost, "/v1/deposit", wallet2, gin.H{"amount": 10}, requestIdHeader, "req-1")
	require.Equal(t, http.StatusOK, code)

	// a rejected request gives its id back
	code, _ = ts.do(t, http.MethodPost, "/v1/withdraw", wallet1, gin.H{"amount": 50}, requestIdHeader, "req-2")
	require.Equal(t, http.StatusConflict, code)
	code, _ = ts.do(t, http.MethodPost, "/v1/withdraw", wallet1, gin.H{"amount": 5}, requestIdHeader, "req-2")
	require.Equal(t, http.StatusOK, code)
}

func TestReceiptsAndInfo(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/v1/deposit", wallet1, gin.H{"amount": 10})
	ts.do(t, http.MethodPost, "/v1/transfer", wallet1, gin.H{"amount": 5, "recipient": wallet2})

	code, out := ts.do(t, http.MethodGet, "/v1/receipts/"+wallet1.String()+"?limit=1", "", nil)
	require.Equal(t, http.StatusOK, code)
	var receipts []model.Receipt
	require.NoError(t, json.Unmarshal(out.Value, &receipts))
	require.Len(t, receipts, 1)
	require.Equal(t, model.OperationTransfer, receipts[0].Type)
	require.Equal(t, model.StatusSuccess, receipts[0].Status)

	code, out = ts.do(t, http.MethodGet, "/v1/receipts/nobody", "", nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, ledger.KindInvalidPrincipal, out.Error)

	code, out = ts.do(t, http.MethodGet, "/v1/info", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"contract_address":"`+contractAddress+`","contract_name":"clawbot","network":"devnet"}`, string(out.Value))

	code, out = ts.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, out.Ok)
}
