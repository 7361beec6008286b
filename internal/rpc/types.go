package rpc

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	CodeTxRejected     = -32001
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// DeriveParam is used by wrap_deriveAddresses.
type DeriveParam struct {
	UnwrappedMint  string `json:"unwrapped_mint"`
	WrappedProgram string `json:"wrapped_program"`
}

// TxSubmitParam is used by tx_submit. Tx is the base64 borsh encoding of
// an engine transaction.
type TxSubmitParam struct {
	Tx string `json:"tx"`
}

// AccountParam is used by the ledger_* read endpoints.
type AccountParam struct {
	Address string `json:"address"`
}

// ── Result types ────────────────────────────────────────────────────────

// TxSubmitResult is returned by tx_submit.
type TxSubmitResult struct {
	Committed bool `json:"committed"`
}

// MintResult is returned by ledger_getMint.
type MintResult struct {
	Address       string `json:"address"`
	Program       string `json:"program"`
	Supply        uint64 `json:"supply"`
	Decimals      uint8  `json:"decimals"`
	MintAuthority string `json:"mint_authority"`
}

// TokenAccountResult is returned by ledger_getTokenAccount.
type TokenAccountResult struct {
	Address string `json:"address"`
	Program string `json:"program"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Amount  uint64 `json:"amount"`
}

// BalanceResult is returned by ledger_getBalance.
type BalanceResult struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// NodeInfoResult is returned by node_info.
type NodeInfoResult struct {
	Version         string `json:"version"`
	Network         string `json:"network"`
	WrapProgram     string `json:"wrap_program"`
	TokenProgram    string `json:"token_program"`
	TokenExtProgram string `json:"token_ext_program"`
}
