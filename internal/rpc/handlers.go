package rpc

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/tessera-labs/tokenwrap/internal/engine"
	"github.com/tessera-labs/tokenwrap/internal/ledger"
	"github.com/tessera-labs/tokenwrap/internal/wrap"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// handleDeriveAddresses computes the derived address set for an
// (unwrapped mint, issuing program) pair. Pure derivation, touches no
// state.
func (s *Server) handleDeriveAddresses(req *Request) (interface{}, *Error) {
	var params DeriveParam
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}

	unwrappedMint, err := types.ParseAddress(params.UnwrappedMint)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("unwrapped_mint: %v", err)}
	}
	wrappedProgram, err := types.ParseAddress(params.WrappedProgram)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("wrapped_program: %v", err)}
	}

	pair, err := wrap.DerivePair(unwrappedMint, wrappedProgram)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return pair, nil
}

// handleTxSubmit decodes and executes one transaction through the engine.
func (s *Server) handleTxSubmit(req *Request) (interface{}, *Error) {
	var params TxSubmitParam
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}

	raw, err := base64.StdEncoding.DecodeString(params.Tx)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "tx must be base64"}
	}
	tx, err := engine.UnmarshalTx(raw)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	if err := s.engine.Execute(tx); err != nil {
		code := CodeTxRejected
		if errors.Is(err, engine.ErrUnknownProgram) {
			code = CodeNotFound
		}
		return nil, &Error{Code: code, Message: err.Error()}
	}
	return TxSubmitResult{Committed: true}, nil
}

// handleGetMint reads a mint record from whichever deployment owns it.
func (s *Server) handleGetMint(req *Request) (interface{}, *Error) {
	var params AccountParam
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	addr, err := types.ParseAddress(params.Address)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("address: %v", err)}
	}

	mint, program, err := ledger.ReadMint(s.engine.ReadView(), addr)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return MintResult{
		Address:       addr.String(),
		Program:       program.String(),
		Supply:        mint.Supply,
		Decimals:      mint.Decimals,
		MintAuthority: mint.MintAuthority.String(),
	}, nil
}

// handleGetTokenAccount reads a token holding record.
func (s *Server) handleGetTokenAccount(req *Request) (interface{}, *Error) {
	result, rpcErr := s.readTokenAccount(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return result, nil
}

// handleGetBalance returns just the amount of a token holding.
func (s *Server) handleGetBalance(req *Request) (interface{}, *Error) {
	result, rpcErr := s.readTokenAccount(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return BalanceResult{Address: result.Address, Amount: result.Amount}, nil
}

func (s *Server) readTokenAccount(req *Request) (*TokenAccountResult, *Error) {
	var params AccountParam
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	addr, err := types.ParseAddress(params.Address)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("address: %v", err)}
	}

	view := s.engine.ReadView()
	acct, err := view.Account(addr)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	rec, err := ledger.New(view, acct.Owner).TokenAccount(addr)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return &TokenAccountResult{
		Address: addr.String(),
		Program: acct.Owner.String(),
		Mint:    rec.Mint.String(),
		Owner:   rec.Owner.String(),
		Amount:  rec.Amount,
	}, nil
}

// handleNodeInfo returns static node facts: network and program addresses.
func (s *Server) handleNodeInfo(_ *Request) (interface{}, *Error) {
	return NodeInfoResult{
		Version:         Version,
		Network:         s.network,
		WrapProgram:     wrap.ProgramID.String(),
		TokenProgram:    ledger.TokenProgramID.String(),
		TokenExtProgram: ledger.TokenExtProgramID.String(),
	}, nil
}

func notFoundOrInternal(err error) *Error {
	if errors.Is(err, engine.ErrAccountNotFound) || errors.Is(err, ledger.ErrNotInitialized) {
		return &Error{Code: CodeNotFound, Message: err.Error()}
	}
	return &Error{Code: CodeInternalError, Message: err.Error()}
}
