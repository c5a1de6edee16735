package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cybergodev/jsondoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Root holds the flags shared by every subcommand
type Root struct {
	URLDecode     bool
	NormalizeKeys bool
	MaxDepth      int
	MaxSize       int64
	Output        string
	Verbose       bool
}

func NewRoot() *cobra.Command {
	r := &Root{}
	cmd := &cobra.Command{
		Use:          "jsondoc",
		Short:        "Query, edit, project, diff and encode JSON documents",
		SilenceUsage: true,
		RunE:         r.Run,
	}
	cmd.CompletionOptions.HiddenDefaultCmd = true
	r.addFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		NewGet(r),
		NewSet(r),
		NewRemove(r),
		NewSelect(r),
		NewDiff(r),
		NewPatch(r),
		NewEncode(r),
		NewDecode(r),
		NewFmt(r),
	)
	return cmd
}

func (r *Root) addFlags(f *pflag.FlagSet) {
	f.BoolVar(&r.URLDecode, "url-decode", false, "URL-decode every pointer and selector level")
	f.BoolVar(&r.NormalizeKeys, "normalize-keys", false, "Apply Unicode NFC normalization to pointer and selector levels")
	f.IntVarP(&r.MaxDepth, "max-depth", "d", jsondoc.DefaultMaxNestingDepth, "Maximum nesting depth of input documents")
	f.Int64Var(&r.MaxSize, "max-size", jsondoc.DefaultMaxDocumentSize, "Maximum size of input documents in bytes")
	f.StringVarP(&r.Output, "output", "o", "json", "Output format: json or yaml")
	f.BoolVarP(&r.Verbose, "verbose", "v", false, "Log every operation to stderr")
}

func (r *Root) Run(cmd *cobra.Command, args []string) error {
	return cmd.Usage()
}

// processor builds a processor from the flags, logging to the command's stderr
func (r *Root) processor(cmd *cobra.Command) *jsondoc.Processor {
	cfg := jsondoc.DefaultConfig()
	cfg.URLDecodeSelectors = r.URLDecode
	cfg.NormalizeKeys = r.NormalizeKeys
	cfg.MaxNestingDepth = r.MaxDepth
	cfg.MaxDocumentSize = r.MaxSize

	p := jsondoc.New(cfg)
	level := slog.LevelWarn
	if r.Verbose {
		level = slog.LevelDebug
	}
	p.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return p
}

// readInput returns the contents of name, or stdin for "-"
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readDocument returns the JSON text of a JSON or YAML input
func (r *Root) readDocument(cmd *cobra.Command, name string) (string, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return "", err
	}
	if !isYAML(name) {
		return string(data), nil
	}
	if int64(len(data)) > r.MaxSize {
		return "", fmt.Errorf("%s is larger than %d bytes: %w", name, r.MaxSize, jsondoc.ErrSizeLimit)
	}
	v, err := jsondoc.ParseYAML(data)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", name, err)
	}
	return v.String(), nil
}

// writeText prints JSON text in the selected output format
func (r *Root) writeText(cmd *cobra.Command, text string) error {
	if r.Output == "json" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	v, err := jsondoc.Parse(text)
	if err != nil {
		return err
	}
	return r.writeValue(cmd, v)
}

// writeValue prints v in the selected output format
func (r *Root) writeValue(cmd *cobra.Command, v jsondoc.Value) error {
	switch r.Output {
	case "json":
		_, err := fmt.Fprintln(cmd.OutOrStdout(), v.String())
		return err
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return fmt.Errorf("unknown output format %q", r.Output)
}
