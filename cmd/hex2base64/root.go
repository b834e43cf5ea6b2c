package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kenneth/hex2base64/internal/codec"
	"github.com/spf13/cobra"
)

// sampleHex is converted when no input is given ("Hello World").
const sampleHex = "48656c6c6f20576f726c64"

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hex2base64 [HEX... | -]",
		Short: "Convert hexadecimal strings to Base64",
		Long: `Convert hexadecimal strings to standard, padded Base64.

Without arguments a built-in sample is converted. Each HEX argument is
converted on its own line; "-" reads whitespace-separated hex from stdin.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args)
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		encoded, err := codec.HexToBase64(sampleHex)
		if err != nil {
			return fmt.Errorf("sample %q: %w", sampleHex, err)
		}
		fmt.Fprintf(out, "Base64 encoded output: %s\n", encoded)
		return nil
	}

	if len(args) == 1 && args[0] == "-" {
		return convertStream(cmd, cmd.InOrStdin())
	}

	for _, arg := range args {
		if err := convertOne(cmd, arg); err != nil {
			return err
		}
	}
	return nil
}

func convertStream(cmd *cobra.Command, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		if err := convertOne(cmd, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return nil
}

func convertOne(cmd *cobra.Command, hex string) error {
	encoded, err := codec.HexToBase64(hex)
	if err != nil {
		return fmt.Errorf("%q: %w", hex, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), encoded)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hex2base64 %s (%s)\n", version, commit)
		},
	}
}
