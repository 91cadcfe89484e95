package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diagraph/internal/config"
	"diagraph/internal/graph"
	"diagraph/internal/parsers"
	"diagraph/internal/render"
	"diagraph/internal/scanner"
)

var (
	generateEntity   string
	generateFormat   string
	generateDepth    int
	generateOutput   string
	generateExternal []string
	generateQuiet    bool
)

// generateCmd scans a directory and renders a diagram for one entity.
var generateCmd = &cobra.Command{
	Use:   "generate <directory>",
	Short: "Generate a relationship diagram for an entity",
	Long: `Generate scans the given directory for source files, builds the
relationship graph, and renders a diagram centered on the entity named
with --entity. The entity may be a qualified name (pkg.module.Name) or a
bare name when it is unambiguous.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateEntity, "entity", "", "entity to generate a diagram for (required)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "output format: text, mermaid, or ascii")
	generateCmd.Flags().IntVar(&generateDepth, "depth", -1, "maximum relationship depth to include")
	generateCmd.Flags().StringVar(&generateOutput, "output", "", "output file path (default: stdout)")
	generateCmd.Flags().StringSliceVar(&generateExternal, "external", nil, "dotted-path patterns treated as external (e.g. os.**)")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "suppress progress output")
	generateCmd.MarkFlagRequired("entity")
}

func runGenerate(cmd *cobra.Command, rootDir string) error {
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, cfg)

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

	builder := graph.NewBuilder(dispatcher,
		graph.WithIgnorePatterns(cfg.Analysis.External...),
		graph.WithProgress(NewCLIProgressReporter(generateQuiet)),
	)
	result, err := builder.Build(cmd.Context(), files)
	if err != nil {
		return err
	}

	if verbose {
		for _, d := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "diagnostic [%s] %s\n", d.Kind, d.Message)
		}
	}

	rootID, err := resolveEntityArg(result.Registry, generateEntity)
	if err != nil {
		return err
	}

	sg, err := result.Graph.Extract(rootID, cfg.Diagram.Depth)
	if err != nil {
		return err
	}

	renderer, err := render.New(render.Format(cfg.Diagram.Format))
	if err != nil {
		return err
	}
	out, err := renderer.Render(sg)
	if err != nil {
		return err
	}

	if generateOutput != "" {
		return os.WriteFile(generateOutput, []byte(out), 0o644)
	}
	fmt.Println(out)
	return nil
}

// applyGenerateFlags layers explicitly set flags over the loaded config.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("format") {
		cfg.Diagram.Format = generateFormat
	}
	if cmd.Flags().Changed("depth") {
		cfg.Diagram.Depth = generateDepth
	}
	if cmd.Flags().Changed("external") {
		cfg.Analysis.External = generateExternal
	}
}

// resolveEntityArg accepts either a qualified name or a bare name that is
// unique across the registry.
func resolveEntityArg(registry *graph.Registry, name string) (string, error) {
	if _, ok := registry.Lookup(name); ok {
		return name, nil
	}
	candidates := registry.Candidates(name)
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", fmt.Errorf("entity %q not found", name)
	default:
		return "", fmt.Errorf("entity %q is ambiguous, candidates: %v", name, candidates)
	}
}
