package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	mainnet := Default(Mainnet)
	if mainnet.RPC.Port != 8545 {
		t.Errorf("mainnet rpc port = %d, want 8545", mainnet.RPC.Port)
	}
	testnet := Default(Testnet)
	if testnet.RPC.Port != 8645 {
		t.Errorf("testnet rpc port = %d, want 8645", testnet.RPC.Port)
	}
	if err := Validate(mainnet); err != nil {
		t.Errorf("default mainnet config invalid: %v", err)
	}
	if err := Validate(testnet); err != nil {
		t.Errorf("default testnet config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrapd.conf")
	content := `# comment
network = testnet

rpc.port = 9999
rpc.allowed = 127.0.0.1, 10.0.0.1
log.level = "debug"
unknown.key = ignored
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	cfg := Default(Mainnet)
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig error: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("network = %q, want testnet", cfg.Network)
	}
	if cfg.RPC.Port != 9999 {
		t.Errorf("rpc port = %d, want 9999", cfg.RPC.Port)
	}
	if len(cfg.RPC.AllowedIPs) != 2 || cfg.RPC.AllowedIPs[1] != "10.0.0.1" {
		t.Errorf("allowed IPs = %v", cfg.RPC.AllowedIPs)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug (quotes stripped)", cfg.Log.Level)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want empty", values)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	cfg := Default(Mainnet)
	if err := ApplyFileConfig(cfg, map[string]string{"rpc.port": "7000", "log.level": "warn"}); err != nil {
		t.Fatal(err)
	}
	ApplyFlags(cfg, &Flags{RPCPort: 7001})

	if cfg.RPC.Port != 7001 {
		t.Errorf("rpc port = %d, want flag value 7001", cfg.RPC.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want file value warn", cfg.Log.Level)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad network", func(c *Config) { c.Network = "devnet" }},
		{"port out of range", func(c *Config) { c.RPC.Port = 70000 }},
		{"bad rpc addr", func(c *Config) { c.RPC.Addr = "not-an-ip" }},
		{"bad allowed ip", func(c *Config) { c.RPC.AllowedIPs = []string{"10.0.0.999"} }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default(Mainnet)
			tc.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnsureDataDirs(t *testing.T) {
	cfg := Default(Mainnet)
	cfg.DataDir = filepath.Join(t.TempDir(), "wrapd")

	if err := EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs error: %v", err)
	}
	for _, dir := range []string{cfg.AccountsDir(), cfg.KeystoreDir(), cfg.LogsDir()} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
		}
	}
	if _, err := os.Stat(cfg.ConfigFile()); err != nil {
		t.Errorf("default config file not written: %v", err)
	}

	// Second call must be a no-op.
	if err := EnsureDataDirs(cfg); err != nil {
		t.Errorf("second EnsureDataDirs error: %v", err)
	}
}
