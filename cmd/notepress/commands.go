package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/notepress/internal/inspect"
	"github.com/dgallion1/notepress/internal/pipeline"
	"github.com/dgallion1/notepress/internal/quiz"
	"github.com/dgallion1/notepress/internal/scanner"
	"github.com/dgallion1/notepress/internal/style"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "notepress",
		Short: "Turn lecture notes into PDF and Word documents",
		Long: `notepress compiles lightweight-markup notes into PDF and DOCX files,
extracts question/answer pairs from quiz transcripts, and reads
rendered files back for checking.

Use 'notepress [command] --help' for more information.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(newCompileCmd(), newQuizCmd(), newScanCmd(), newInspectCmd())
	return rootCmd
}

// compile command - render notes to a file
func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file|->",
		Short: "Render notes to PDF or DOCX",
		Long: `Render a notes file (or stdin with '-') to PDF or DOCX.
The output file name is derived from the title.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			title, _ := cmd.Flags().GetString("title")
			outDir, _ := cmd.Flags().GetString("out")
			styleFile, _ := cmd.Flags().GetString("style")
			fontDir, _ := cmd.Flags().GetString("font-dir")
			strict, _ := cmd.Flags().GetBool("strict")

			format, err := pipeline.ParseFormat(formatName)
			if err != nil {
				return err
			}
			styles, err := style.Load(styleFile)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if title == "" && args[0] != "-" {
				base := filepath.Base(args[0])
				title = strings.TrimSuffix(base, filepath.Ext(base))
			}

			compiler := pipeline.NewCompiler(styles, pipeline.PageOptions{FontDir: fontDir, Strict: strict}, nil, logger(cmd))
			artifact, err := compiler.Compile(format, text, title)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path := filepath.Join(outDir, filepath.Base(artifact.Filename))
			if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", path, humanize.Bytes(uint64(len(artifact.Data))))
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "pdf", "output format: pdf or docx")
	cmd.Flags().StringP("title", "t", "", "document title (default: input file name)")
	cmd.Flags().StringP("out", "o", ".", "output directory")
	cmd.Flags().String("style", "", "YAML style override file")
	cmd.Flags().String("font-dir", "", "directory with TrueType fonts for PDF output")
	cmd.Flags().Bool("strict", false, "fail when PDF text needs a font from --font-dir")
	return cmd
}

// quiz command - extract question/answer pairs
func newQuizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quiz <file|->",
		Short: "Extract quiz items as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), quiz.NewParser(logger(cmd)).Parse(text))
		},
	}
}

// scan command - show the block structure of notes
func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <file|->",
		Short: "Print the blocks found in notes as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), scanner.Scan(scanner.Normalize(text)))
		},
	}
}

// inspect command - read a rendered file back
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf|file.docx>",
		Short: "Show what a rendered PDF or DOCX contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch ext := strings.ToLower(filepath.Ext(args[0])); ext {
			case ".pdf":
				info, err := inspect.PDF(data)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Title: %s\n", info.Title)
				fmt.Fprintf(out, "Pages: %d\n", info.Pages)
				fmt.Fprintf(out, "Size:  %s\n", humanize.Bytes(uint64(len(data))))
				for i, text := range info.Text {
					fmt.Fprintf(out, "\n--- page %d ---\n%s\n", i+1, text)
				}
				return nil
			case ".docx":
				doc, err := inspect.DOCX(data)
				if err != nil {
					return err
				}
				return printJSON(out, doc)
			default:
				return fmt.Errorf("unsupported file type %q (want .pdf or .docx)", ext)
			}
		},
	}
}

// readInput reads a file argument, or stdin for "-".
func readInput(cmd *cobra.Command, arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// logger writes to stderr. Only warnings are shown unless --verbose is set.
func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
