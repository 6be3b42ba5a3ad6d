package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"scriptpad/internal/transcript"
)

var showCmd = &cobra.Command{
	Use:   "show [flags] <transcript>",
	Short: "Render a transcript saved by run --record",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	showCmd.Flags().Bool("source", false, "print the script text before the output")
}

func runShow(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatStr)
	if err != nil {
		return err
	}
	showSource, err := cmd.Flags().GetBool("source")
	if err != nil {
		return fmt.Errorf("failed to get source flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	useColor, err := resolveColor(cmd, cfg)
	if err != nil {
		return err
	}

	tr, err := transcript.Load(args[0])
	if err != nil {
		return err
	}
	sess := tr.Restore()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if format != formatJSON {
		if showSource {
			fmt.Fprintf(out, "--- %s ---\n%s\n--- output ---\n", sess.Source.Name, sess.Source.Text())
		}
		if _, err := io.WriteString(out, sess.Stdout()); err != nil {
			return err
		}
	}
	return reportSession(out, errOut, sess, format, useColor)
}
