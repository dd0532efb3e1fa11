package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/z-companion/backend/internal/analysis/response"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
	companionsvc "github.com/zhouzirui/z-companion/backend/internal/service/companion"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	message     string
	historyFile string
	pick        int
	compact     bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := options{pick: -1}

	cmd := &cobra.Command{
		Use:   "turntester [message]",
		Short: "Run one companion turn offline and print the result",
		Long: `Runs the emotion, assessment and reply pipeline on a single message.
History can be supplied as a JSON file shaped like the /api/companion request
body; its "message" field is replaced by the message given here.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.message = args[0]
			}
			return runTurn(out, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "user message to analyse")
	cmd.Flags().StringVar(&opts.historyFile, "history", "", "JSON file with conversationHistory/emotionalHistory/userProfile")
	cmd.Flags().IntVar(&opts.pick, "pick", -1, "fixed template index; negative draws at random")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "print compact JSON")
	return cmd
}

func runTurn(out io.Writer, opts options) error {
	if strings.TrimSpace(opts.message) == "" {
		return errors.New("a message is required (argument or --message)")
	}

	in, err := loadInput(opts.historyFile)
	if err != nil {
		return err
	}
	in.Message = opts.message

	var picker response.Picker
	if opts.pick >= 0 {
		idx := opts.pick
		picker = response.PickerFunc(func(int) int { return idx })
	}

	result := companionsvc.NewEngine(picker).Respond(in)

	enc := json.NewEncoder(out)
	if !opts.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func loadInput(path string) (companion.TurnInput, error) {
	var in companion.TurnInput
	if path == "" {
		return in, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read history file: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse history file: %w", err)
	}
	return in, nil
}
