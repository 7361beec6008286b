// wrap-cli is a command-line client for interacting with a wrapd node.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/tessera-labs/tokenwrap/config"
	"github.com/tessera-labs/tokenwrap/internal/ledger"
	"github.com/tessera-labs/tokenwrap/internal/rpcclient"
	"github.com/tessera-labs/tokenwrap/internal/wallet"
	"github.com/tessera-labs/tokenwrap/internal/wrap"
	"github.com/tessera-labs/tokenwrap/pkg/types"
	"golang.org/x/term"
)

// keystoreDir returns the keystore path matching wrapd's layout:
// <datadir>/<network>/keystore
func keystoreDir(dataDir, network string) string {
	return filepath.Join(dataDir, network, "keystore")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	rpcURL := "http://127.0.0.1:8545"
	dataDir := config.DefaultDataDir()
	network := "mainnet"

	// Scan for --rpc, --datadir, and --network before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	ksDir := keystoreDir(dataDir, network)
	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(client)
	case "keygen":
		cmdKeygen(cmdArgs, ksDir)
	case "keys":
		cmdKeys(ksDir)
	case "derive":
		cmdDerive(client, cmdArgs)
	case "create-mint":
		cmdCreateMint(client, cmdArgs, ksDir)
	case "wrap":
		cmdWrap(client, cmdArgs, ksDir)
	case "unwrap":
		cmdUnwrap(client, cmdArgs, ksDir)
	case "balance":
		cmdBalance(client, cmdArgs)
	case "mint":
		cmdMint(client, cmdArgs)
	case "account":
		cmdAccount(client, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: wrap-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:8545)
  --datadir <path>    Data directory (default: ~/.wrapd)
  --network <net>     mainnet (default) or testnet

Commands:
  status                          Show node status
  keygen --name <n>               Generate a new keypair
  keygen --name <n> --import <file.json>
                                  Import a plain JSON keypair
  keygen --name <n> --export <file.json>
                                  Export a keypair to plain JSON
  keys                            List stored keys
  derive <unwrapped-mint>         Show derived pair addresses
  create-mint --key <k> --unwrapped-mint <addr>
                                  Create the wrapped mint for a pair
  wrap --key <k> --unwrapped-mint <addr> --source <acct> --dest <acct> --amount <n>
                                  Deposit unwrapped tokens, mint wrapped
  unwrap --key <k> --unwrapped-mint <addr> --source <acct> --dest <acct> --amount <n>
                                  Burn wrapped tokens, release unwrapped
  balance <token-account>         Show a token account balance
  mint <mint-address>             Show mint details
  account <token-account>         Show token account details

Program flags (create-mint, wrap, unwrap):
  --wrapped-program <p>           token (default) or token-ext, or an address
  --unwrapped-program <p>         token (default) or token-ext, or an address
`)
}

// parseProgram resolves a token program argument: the short names "token"
// and "token-ext", or a base58 program address.
func parseProgram(s string) (types.Address, error) {
	switch s {
	case "token":
		return ledger.TokenProgramID, nil
	case "token-ext":
		return ledger.TokenExtProgramID, nil
	}
	return types.ParseAddress(s)
}

func parseAddr(name, s string) types.Address {
	if s == "" {
		fatal("--%s is required", name)
	}
	addr, err := types.ParseAddress(s)
	if err != nil {
		fatal("invalid %s: %v", name, err)
	}
	return addr
}

func parseAmount(s string) uint64 {
	if s == "" {
		fatal("--amount is required")
	}
	amount, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		fatal("invalid amount: %v", err)
	}
	if amount == 0 {
		fatal("amount must be positive")
	}
	return amount
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	info, err := client.NodeInfo()
	if err != nil {
		fatal("node_info: %v", err)
	}
	fmt.Printf("Version:           %s\n", info.Version)
	fmt.Printf("Network:           %s\n", info.Network)
	fmt.Printf("Wrap program:      %s\n", info.WrapProgram)
	fmt.Printf("Token program:     %s\n", info.TokenProgram)
	fmt.Printf("Token-ext program: %s\n", info.TokenExtProgram)
}

// ── keygen / keys ───────────────────────────────────────────────────────

func cmdKeygen(args []string, ksDir string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	name := fs.String("name", "", "Key name")
	importFile := fs.String("import", "", "Import a plain JSON keypair file")
	exportFile := fs.String("export", "", "Export an existing key to plain JSON")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: wrap-cli keygen --name <name> [--import <file>|--export <file>]")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	if *exportFile != "" {
		password, err := readPassword("Enter password: ")
		if err != nil {
			fatal("read password: %v", err)
		}
		kp, err := ks.Load(*name, password)
		if err != nil {
			fatal("load key: %v", err)
		}
		defer kp.Zero()
		if err := wallet.ExportPlainJSON(*exportFile, kp); err != nil {
			fatal("export: %v", err)
		}
		fmt.Printf("Exported %s to %s\n", *name, *exportFile)
		return
	}

	if *importFile != "" {
		kp, err := wallet.ImportPlainJSON(*importFile)
		if err != nil {
			fatal("import: %v", err)
		}
		defer kp.Zero()
		password, err := readPasswordConfirm()
		if err != nil {
			fatal("read password: %v", err)
		}
		if err := ks.Create(*name, kp, password, wallet.DefaultParams()); err != nil {
			fatal("store key: %v", err)
		}
		fmt.Printf("Imported key: %s\n", *name)
		fmt.Printf("Address:      %s\n", kp.Address())
		return
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}
	kp, err := wallet.KeypairFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive keypair: %v", err)
	}
	defer kp.Zero()

	password, err := readPasswordConfirm()
	if err != nil {
		fatal("read password: %v", err)
	}
	if err := ks.Create(*name, kp, password, wallet.DefaultParams()); err != nil {
		fatal("store key: %v", err)
	}

	fmt.Printf("Created key: %s\n", *name)
	fmt.Printf("Address:     %s\n", kp.Address())
	fmt.Println()
	fmt.Println("Recovery mnemonic (write this down, it is not stored):")
	fmt.Println()
	fmt.Printf("  %s\n", mnemonic)
}

func cmdKeys(ksDir string) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	names, err := ks.List()
	if err != nil {
		fatal("list keys: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No keys found.")
		return
	}
	for _, name := range names {
		addr, err := ks.Address(name)
		if err != nil {
			fmt.Printf("%-20s (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Printf("%-20s %s\n", name, addr)
	}
}

// ── derive ──────────────────────────────────────────────────────────────

func cmdDerive(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	wrappedProgram := fs.String("wrapped-program", "token", "Wrapped token program")
	local := fs.Bool("local", false, "Derive locally without contacting the node")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fatal("Usage: wrap-cli derive [--wrapped-program <p>] <unwrapped-mint>")
	}
	unwrappedMint := parseAddr("unwrapped-mint", fs.Arg(0))
	program, err := parseProgram(*wrappedProgram)
	if err != nil {
		fatal("invalid wrapped program: %v", err)
	}

	var pair *wrap.PairAddresses
	if *local {
		pair, err = wrap.DerivePair(unwrappedMint, program)
		if err != nil {
			fatal("derive: %v", err)
		}
	} else {
		pair, err = client.DeriveAddresses(unwrappedMint, program)
		if err != nil {
			fatal("wrap_deriveAddresses: %v", err)
		}
	}

	out, err := json.MarshalIndent(pair, "", "  ")
	if err != nil {
		fatal("encode: %v", err)
	}
	fmt.Println(string(out))
}

// ── create-mint ─────────────────────────────────────────────────────────

func cmdCreateMint(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("create-mint", flag.ExitOnError)
	keyName := fs.String("key", "", "Key name (funding signer)")
	unwrappedMintStr := fs.String("unwrapped-mint", "", "Unwrapped mint address")
	wrappedProgram := fs.String("wrapped-program", "token", "Wrapped token program")
	idempotent := fs.Bool("idempotent", false, "Succeed if the pair already exists")
	fs.Parse(args)

	if *keyName == "" {
		fatal("Usage: wrap-cli create-mint --key <k> --unwrapped-mint <addr> [--wrapped-program <p>] [--idempotent]")
	}
	unwrappedMint := parseAddr("unwrapped-mint", *unwrappedMintStr)
	program, err := parseProgram(*wrappedProgram)
	if err != nil {
		fatal("invalid wrapped program: %v", err)
	}

	funding := unlockAddress(ksDir, *keyName)

	pair, err := client.DeriveAddresses(unwrappedMint, program)
	if err != nil {
		fatal("wrap_deriveAddresses: %v", err)
	}

	tx := wrap.NewCreateMintTx(funding, pair.WrappedMint, pair.Backpointer,
		unwrappedMint, program, *idempotent)
	if err := client.SubmitTx(tx); err != nil {
		fatal("tx_submit: %v", err)
	}

	fmt.Printf("Wrapped mint:  %s\n", pair.WrappedMint)
	fmt.Printf("Backpointer:   %s\n", pair.Backpointer)
	fmt.Printf("Mint authority: %s\n", pair.MintAuthority)
	fmt.Printf("Escrow:        %s\n", pair.Escrow)
}

// ── wrap / unwrap ───────────────────────────────────────────────────────

func cmdWrap(client *rpcclient.Client, args []string, ksDir string) {
	p := parseTransferArgs("wrap", args, ksDir)

	pair, err := client.DeriveAddresses(p.unwrappedMint, p.wrappedProgram)
	if err != nil {
		fatal("wrap_deriveAddresses: %v", err)
	}

	tx := wrap.NewWrapTx(p.source, pair.Escrow, p.unwrappedMint, pair.WrappedMint,
		p.dest, pair.MintAuthority, p.unwrappedProgram, p.wrappedProgram,
		p.authority, p.amount, nil)
	if err := client.SubmitTx(tx); err != nil {
		fatal("tx_submit: %v", err)
	}
	fmt.Printf("Wrapped %d (%s -> %s)\n", p.amount, p.source, p.dest)
}

func cmdUnwrap(client *rpcclient.Client, args []string, ksDir string) {
	p := parseTransferArgs("unwrap", args, ksDir)

	pair, err := client.DeriveAddresses(p.unwrappedMint, p.wrappedProgram)
	if err != nil {
		fatal("wrap_deriveAddresses: %v", err)
	}

	tx := wrap.NewUnwrapTx(p.source, pair.WrappedMint, pair.Escrow, p.dest,
		p.unwrappedMint, pair.MintAuthority, p.wrappedProgram,
		p.unwrappedProgram, p.authority, p.amount, nil)
	if err := client.SubmitTx(tx); err != nil {
		fatal("tx_submit: %v", err)
	}
	fmt.Printf("Unwrapped %d (%s -> %s)\n", p.amount, p.source, p.dest)
}

// transferArgs holds the parsed flags shared by wrap and unwrap.
type transferArgs struct {
	authority        types.Address
	unwrappedMint    types.Address
	source           types.Address
	dest             types.Address
	wrappedProgram   types.Address
	unwrappedProgram types.Address
	amount           uint64
}

func parseTransferArgs(cmd string, args []string, ksDir string) transferArgs {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	keyName := fs.String("key", "", "Key name (transfer authority)")
	unwrappedMintStr := fs.String("unwrapped-mint", "", "Unwrapped mint address")
	sourceStr := fs.String("source", "", "Source token account")
	destStr := fs.String("dest", "", "Destination token account")
	amountStr := fs.String("amount", "", "Amount in base units")
	wrappedProgramStr := fs.String("wrapped-program", "token", "Wrapped token program")
	unwrappedProgramStr := fs.String("unwrapped-program", "token", "Unwrapped token program")
	fs.Parse(args)

	if *keyName == "" {
		fatal("Usage: wrap-cli %s --key <k> --unwrapped-mint <addr> --source <acct> --dest <acct> --amount <n>", cmd)
	}

	wrappedProgram, err := parseProgram(*wrappedProgramStr)
	if err != nil {
		fatal("invalid wrapped program: %v", err)
	}
	unwrappedProgram, err := parseProgram(*unwrappedProgramStr)
	if err != nil {
		fatal("invalid unwrapped program: %v", err)
	}

	return transferArgs{
		authority:        unlockAddress(ksDir, *keyName),
		unwrappedMint:    parseAddr("unwrapped-mint", *unwrappedMintStr),
		source:           parseAddr("source", *sourceStr),
		dest:             parseAddr("dest", *destStr),
		wrappedProgram:   wrappedProgram,
		unwrappedProgram: unwrappedProgram,
		amount:           parseAmount(*amountStr),
	}
}

// ── balance / mint / account ────────────────────────────────────────────

func cmdBalance(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("Usage: wrap-cli balance <token-account>")
	}
	addr := parseAddr("token-account", args[0])
	amount, err := client.GetBalance(addr)
	if err != nil {
		fatal("ledger_getBalance: %v", err)
	}
	fmt.Printf("%d\n", amount)
}

func cmdMint(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("Usage: wrap-cli mint <mint-address>")
	}
	addr := parseAddr("mint-address", args[0])
	mint, err := client.GetMint(addr)
	if err != nil {
		fatal("ledger_getMint: %v", err)
	}
	fmt.Printf("Address:        %s\n", mint.Address)
	fmt.Printf("Program:        %s\n", mint.Program)
	fmt.Printf("Supply:         %d\n", mint.Supply)
	fmt.Printf("Decimals:       %d\n", mint.Decimals)
	fmt.Printf("Mint authority: %s\n", mint.MintAuthority)
}

func cmdAccount(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("Usage: wrap-cli account <token-account>")
	}
	addr := parseAddr("token-account", args[0])
	acct, err := client.GetTokenAccount(addr)
	if err != nil {
		fatal("ledger_getTokenAccount: %v", err)
	}
	fmt.Printf("Address: %s\n", acct.Address)
	fmt.Printf("Program: %s\n", acct.Program)
	fmt.Printf("Mint:    %s\n", acct.Mint)
	fmt.Printf("Owner:   %s\n", acct.Owner)
	fmt.Printf("Amount:  %d\n", acct.Amount)
}

// ── helpers ─────────────────────────────────────────────────────────────

// unlockAddress prompts for the key's password and returns its address.
func unlockAddress(ksDir, name string) types.Address {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	kp, err := ks.Load(name, password)
	if err != nil {
		fatal("invalid password or key: %v", err)
	}
	defer kp.Zero()
	return kp.Address()
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return password, nil
}

func readPasswordConfirm() ([]byte, error) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if string(password) != string(confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
