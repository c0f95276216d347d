package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerkit/ledgerd/internal/ledger"
)

var replayCmd = &cobra.Command{
	Use:   "replay [SCRIPT]",
	Short: "Replay a JSON-lines operation script against a fresh engine",
	Long: `Replay feeds a JSON-lines script into a fresh in-memory engine and
prints one result per operation. Useful as a deterministic offline
harness: the same script always produces the same output.

Each line is an object with an "op" field and the operation's arguments:

  {"op":"create_account","timestamp":0,"account":"alice"}
  {"op":"deposit","timestamp":1,"account":"alice","amount":1000}
  {"op":"pay","timestamp":2,"account":"alice","amount":100}
  {"op":"transfer","timestamp":3,"source":"alice","target":"bob","amount":50}
  {"op":"accept_transfer","timestamp":4,"account":"bob","transfer":"transfer1"}
  {"op":"get_balance","timestamp":5,"account":"alice"}
  {"op":"top_spenders","timestamp":6,"n":3}

With no SCRIPT argument the script is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	engine := ledger.NewEngine(ledger.DefaultConfig())
	return runScript(engine, in, cmd.OutOrStdout())
}

// scriptOp is one line of a replay script.
type scriptOp struct {
	Op        string `json:"op"`
	Timestamp int64  `json:"timestamp"`
	Account   string `json:"account"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Transfer  string `json:"transfer"`
	Payment   string `json:"payment"`
	Amount    int64  `json:"amount"`
	N         int    `json:"n"`
}

// runScript applies each script line to the engine and writes one result
// line per operation. A failed operation prints its reason and the replay
// continues: sentinel failures are normal outcomes, not script errors.
func runScript(engine *ledger.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var op scriptOp
		if err := json.Unmarshal([]byte(line), &op); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		result, err := applyOp(engine, op)
		if err != nil {
			fmt.Fprintf(out, "%d %s: rejected: %v\n", lineNo, op.Op, err)
			continue
		}
		fmt.Fprintf(out, "%d %s: %s\n", lineNo, op.Op, result)
	}
	return scanner.Err()
}

func applyOp(engine *ledger.Engine, op scriptOp) (string, error) {
	switch op.Op {
	case "create_account":
		if !engine.CreateAccount(op.Timestamp, op.Account) {
			return "duplicate", nil
		}
		return "created", nil
	case "deposit":
		balance, err := engine.Deposit(op.Timestamp, op.Account, op.Amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("balance=%d", balance), nil
	case "pay":
		id, err := engine.Pay(op.Timestamp, op.Account, op.Amount)
		if err != nil {
			return "", err
		}
		return id, nil
	case "transfer":
		id, err := engine.Transfer(op.Timestamp, op.Source, op.Target, op.Amount)
		if err != nil {
			return "", err
		}
		return id, nil
	case "accept_transfer":
		if err := engine.AcceptTransfer(op.Timestamp, op.Account, op.Transfer); err != nil {
			return "", err
		}
		return "accepted", nil
	case "get_balance":
		balance, err := engine.GetBalance(op.Timestamp, op.Account)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("balance=%d", balance), nil
	case "get_payment_status":
		status, err := engine.GetPaymentStatus(op.Timestamp, op.Account, op.Payment)
		if err != nil {
			return "", err
		}
		return string(status), nil
	case "get_transfer_status":
		status, err := engine.GetTransferStatus(op.Timestamp, op.Transfer)
		if err != nil {
			return "", err
		}
		return string(status), nil
	case "top_spenders":
		return strings.Join(engine.TopSpenders(op.Timestamp, op.N), ", "), nil
	default:
		return "", fmt.Errorf("unknown op %q", op.Op)
	}
}
