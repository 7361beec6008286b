package node

import (
	"path/filepath"
	"testing"

	"github.com/tessera-labs/tokenwrap/config"
	"github.com/tessera-labs/tokenwrap/internal/engine"
	"github.com/tessera-labs/tokenwrap/internal/ledger"
	"github.com/tessera-labs/tokenwrap/internal/rpcclient"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

func testConfig(t *testing.T, dataDir string) *config.Config {
	t.Helper()
	cfg := config.Default(config.Testnet)
	cfg.DataDir = dataDir
	cfg.RPC.Addr = "127.0.0.1"
	cfg.RPC.Port = 0
	cfg.Log.Level = "error"
	if err := config.EnsureDataDirs(cfg); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func addr(b byte) types.Address {
	var a types.Address
	a[0] = b
	a[1] = 0x6d
	return a
}

func TestNode_StartServeStop(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "wrapd"))

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := n.Start(); err != nil {
		n.Stop()
		t.Fatalf("Start error: %v", err)
	}
	defer n.Stop()

	c := rpcclient.New("http://" + n.RPCAddr())
	info, err := c.NodeInfo()
	if err != nil {
		t.Fatalf("NodeInfo error: %v", err)
	}
	if info.Network != "testnet" {
		t.Errorf("network = %q, want testnet", info.Network)
	}
}

func TestNode_StatePersistsAcrossRestart(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "wrapd")
	cfg := testConfig(t, dataDir)
	authority, mint := addr(1), addr(0xa0)

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	err = n.Engine().Execute(&engine.Tx{
		Program:  ledger.TokenProgramID,
		Accounts: []types.Address{mint},
		Data:     ledger.EncodeInitializeMint(6, authority),
	})
	if err != nil {
		n.Stop()
		t.Fatalf("tx error: %v", err)
	}
	n.Stop()

	n, err = New(cfg)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer n.Stop()

	rec, err := ledger.New(n.Engine().ReadView(), ledger.TokenProgramID).Mint(mint)
	if err != nil {
		t.Fatalf("mint not readable after restart: %v", err)
	}
	if rec.Decimals != 6 {
		t.Errorf("decimals = %d, want 6", rec.Decimals)
	}
}
