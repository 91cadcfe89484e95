package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"diagraph/internal/config"
	"diagraph/internal/graph"
	"diagraph/internal/parsers"
	"diagraph/internal/scanner"
)

var (
	listExternal     []string
	listShowExternal bool
)

// listCmd scans a directory and prints every known entity, which is the
// quickest way to find the qualified name to pass to generate --entity.
var listCmd = &cobra.Command{
	Use:   "list <directory>",
	Short: "List the entities found in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringSliceVar(&listExternal, "external", nil, "dotted-path patterns treated as external (e.g. os.**)")
	listCmd.Flags().BoolVar(&listShowExternal, "show-external", false, "include external entities in the listing")
}

func runList(cmd *cobra.Command, rootDir string) error {
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("external") {
		cfg.Analysis.External = listExternal
	}

	fd, err := scanner.NewFileDiscovery(rootDir, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return err
	}
	files, err := fd.Discover()
	if err != nil {
		return fmt.Errorf("discover files in %s: %w", rootDir, err)
	}

	dispatcher := parsers.NewDispatcher(
		parsers.NewPythonParser(rootDir),
		parsers.NewGoParser(rootDir),
	)
	builder := graph.NewBuilder(dispatcher, graph.WithIgnorePatterns(cfg.Analysis.External...))
	result, err := builder.Build(cmd.Context(), files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range result.Registry.All() {
		if e.External && !listShowExternal {
			continue
		}
		suffix := ""
		if e.External {
			suffix = " (external)"
		}
		fmt.Fprintf(out, "%-8s %s%s\n", e.Kind, e.QualifiedName, suffix)
	}
	return nil
}
