package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"scriptpad/internal/version"
)

const versionTagline = "scripts in, line numbers out"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show scriptpad build fingerprints",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// buildField is one optional line of `scriptpad version`.
type buildField struct {
	flag  string
	label string
	value func(version.Info) string
	clear func(*version.Info)
}

var buildFields = []buildField{
	{"hash", "commit", func(i version.Info) string { return version.ShortCommit(i.GitCommit) }, func(i *version.Info) { i.GitCommit = "" }},
	{"message", "message", func(i version.Info) string { return i.GitMessage }, func(i *version.Info) { i.GitMessage = "" }},
	{"date", "built", func(i version.Info) string { return i.BuildDate }, func(i *version.Info) { i.BuildDate = "" }},
}

func runVersion(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("format")
	format, err := choice("format", raw, "pretty", "json")
	if err != nil {
		return err
	}
	full, _ := cmd.Flags().GetBool("full")
	var shown []buildField
	for _, f := range buildFields {
		if on, _ := cmd.Flags().GetBool(f.flag); on || full {
			shown = append(shown, f)
		}
	}

	info := version.Current()
	if format == "json" {
		return writeVersionJSON(cmd.OutOrStdout(), info, shown)
	}
	if cfg, err := loadConfig(cmd); err == nil {
		if _, err := resolveColor(cmd, cfg); err != nil {
			return err
		}
	}
	writeVersion(cmd.OutOrStdout(), info, shown)
	return nil
}

func writeVersion(out io.Writer, info version.Info, shown []buildField) {
	fmt.Fprintf(out, "scriptpad %s (%s)\n", version.Colored(info.Version), versionTagline)
	if len(shown) == 0 {
		fmt.Fprintf(out, "%s %s\n", info.GoVersion, info.Platform)
		return
	}
	for _, f := range shown {
		v := f.value(info)
		if v == "" {
			v = "unknown"
		}
		fmt.Fprintf(out, "%-8s %s\n", f.label+":", v)
	}
}

func writeVersionJSON(out io.Writer, info version.Info, shown []buildField) error {
	for _, f := range buildFields {
		if !containsField(shown, f.flag) {
			f.clear(&info)
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Tool string `json:"tool"`
		version.Info
		Tagline string `json:"tagline"`
	}{"scriptpad", info, versionTagline})
}

func containsField(fields []buildField, flag string) bool {
	for _, f := range fields {
		if f.flag == flag {
			return true
		}
	}
	return false
}
