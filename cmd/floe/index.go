package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"floe/internal/driver"
	"floe/internal/semantic"
	"floe/internal/source"
)

var indexCmd = &cobra.Command{
	Use:   "index [flags] [path...]",
	Short: "Build semantic indexes for Python sources",
	Long:  `Index parses the given files or directories and builds per-file semantic indexes: the scope tree, symbol tables, definitions, and flow-sensitive binding facts.`,
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().Bool("dump", false, "print the full scope/symbol/definition tables")
	indexCmd.Flags().Bool("ui", false, "show interactive progress (requires a terminal)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	dump, err := cmd.Flags().GetBool("dump")
	if err != nil {
		return fmt.Errorf("failed to get dump flag: %w", err)
	}
	withUI, err := cmd.Flags().GetBool("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	if dump && opts.Cache != nil {
		// Cached results carry no index; dumping needs a full build.
		opts.Cache = nil
	}

	var (
		fileSet *source.FileSet
		results []driver.FileResult
	)
	if withUI && isTerminal(os.Stdout) {
		fileSet, results, err = runIndexWithUI(cmd, args, opts)
	} else {
		fileSet, results, err = driver.IndexPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	colored := useColor(cmd)
	errors := renderDiagnostics(os.Stdout, fileSet, results, colored)

	for _, r := range results {
		origin := ""
		if r.FromCache {
			origin = " (cached)"
		}
		fmt.Fprintf(os.Stdout, "%s: %d scopes, %d symbols, %d definitions, %d uses%s\n",
			r.Path, r.Summary.Scopes, r.Summary.Symbols, r.Summary.Definitions, r.Summary.Uses, origin)
		if dump && r.Index != nil {
			dumpIndex(os.Stdout, r.Index)
		}
	}

	if errors > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// dumpIndex prints the scope tree depth-first with each scope's symbols and
// definitions.
func dumpIndex(out io.Writer, idx *semantic.Index) {
	var walk func(scope semantic.ScopeID, depth int)
	walk = func(scope semantic.ScopeID, depth int) {
		s := idx.Scopes.Get(scope)
		if s == nil {
			return
		}
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(out, "%sscope #%d %s [%d..%d]\n", indent, scope, s.Kind, s.Span.Start, s.Span.End)

		for _, symID := range idx.SymbolsOf(scope) {
			sym := idx.Symbols.Get(symID)
			name := idx.Strings.MustLookup(sym.Name)
			flags := strings.Join(sym.Flags.Strings(), ",")
			if flags != "" {
				flags = " (" + flags + ")"
			}
			fmt.Fprintf(out, "%s  sym #%d %s%s\n", indent, symID, name, flags)
		}
		for _, defID := range idx.DefinitionsOf(scope) {
			def := idx.Definitions.Get(defID)
			name := idx.Strings.MustLookup(idx.Symbols.Get(def.Symbol).Name)
			fmt.Fprintf(out, "%s  def #%d %s %s [%d..%d]\n", indent, defID, def.Kind, name, def.Span.Start, def.Span.End)
		}
		if public := idx.PublicBindings(scope); len(public) > 0 {
			names := make([]string, 0, len(public))
			for _, symID := range public {
				names = append(names, idx.Strings.MustLookup(idx.Symbols.Get(symID).Name))
			}
			fmt.Fprintf(out, "%s  public: %s\n", indent, strings.Join(names, " "))
		}

		for _, child := range s.Children {
			walk(child, depth+1)
		}
	}
	walk(idx.ModuleScope, 1)
}
