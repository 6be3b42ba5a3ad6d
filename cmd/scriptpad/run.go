package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"scriptpad/internal/runner"
	"scriptpad/internal/session"
	"scriptpad/internal/source"
	"scriptpad/internal/transcript"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file>",
	Short: "Run a script once and report its errors",
	Long: `Run a script file through the configured interpreter, stream its output
and print the errors it reports mapped to lines of the file. The command exits
with the script's own exit status.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	runCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	runCmd.Flags().String("ui", "auto", "show a progress view while running (auto|on|off)")
	runCmd.Flags().String("record", "", "write a transcript of the run to this path")
	runCmd.Flags().Duration("max-runtime", 0, "kill the script after this long (overrides [run].max_runtime)")
	runCmd.Flags().String("interpreter", "", "interpreter command (overrides [interpreter].command)")
	runCmd.Flags().StringArray("interpreter-arg", nil, "argument placed before the script path (repeatable, overrides [interpreter].args)")
	runCmd.Flags().Bool("timings", false, "print launch, run and parse timings to stderr")
}

func runScript(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatStr)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	recordPath, err := cmd.Flags().GetString("record")
	if err != nil {
		return fmt.Errorf("failed to get record flag: %w", err)
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-runtime") {
		maxRuntime, err := cmd.Flags().GetDuration("max-runtime")
		if err != nil {
			return fmt.Errorf("failed to get max-runtime flag: %w", err)
		}
		cfg.Run.MaxRuntime.Duration = maxRuntime
	}
	interp, _ := cmd.Flags().GetString("interpreter")
	interpArgs, _ := cmd.Flags().GetStringArray("interpreter-arg")
	overrideInterpreter(&cfg.Interpreter, interp, interpArgs, cmd.Flags().Changed("interpreter-arg"))
	if err := cfg.Validate(); err != nil {
		return err
	}
	useColor, err := resolveColor(cmd, cfg)
	if err != nil {
		return err
	}

	script, err := source.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	text := script.Text()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	var sess *session.Session
	if format == formatPretty && shouldUseTUI(mode, os.Stderr) {
		sess, err = runWithUI(ctx, cfg, text)
		if err != nil {
			return fmt.Errorf("progress view failed: %w", err)
		}
		if sess != nil {
			if _, err := io.WriteString(out, sess.Stdout()); err != nil {
				return err
			}
		}
	} else {
		sess = runHeadless(ctx, cfg, text, streamObserver(out, format), nil)
	}
	if sess == nil {
		return sessionExit(nil)
	}

	if recordPath != "" {
		if err := transcript.Save(recordPath, transcript.FromSession(sess)); err != nil {
			return fmt.Errorf("failed to write transcript: %w", err)
		}
	}
	if sess.Err != nil && format != formatJSON {
		// LaunchError already reads as a sentence
		fmt.Fprintln(errOut, sess.Err)
	} else if err := reportSession(out, errOut, sess, format, useColor); err != nil {
		return err
	}
	if showTimings {
		fmt.Fprint(errOut, timingsReport(sess).Summary())
	}
	return sessionExit(sess)
}

// streamObserver copies script stdout to out as it arrives. JSON output
// carries stdout in the result document instead.
func streamObserver(out io.Writer, format outputFormat) session.Observer {
	if format == formatJSON {
		return nil
	}
	return session.ObserverFuncs{
		OnOutput: func(_ session.ID, stream runner.Stream, text string) {
			if stream == runner.Stdout {
				_, _ = io.WriteString(out, text) //nolint:errcheck
			}
		},
	}
}
