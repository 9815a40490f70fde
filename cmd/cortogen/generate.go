package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cortoforge/cortogen/driver"
	"github.com/cortoforge/cortogen/driver/docai"
	"github.com/cortoforge/cortogen/emit"
	"github.com/cortoforge/cortogen/host"
	"github.com/cortoforge/cortogen/objmodel"
)

var (
	flagLang       string
	flagDriver     string
	flagOut        string
	flagPrefix     string
	flagIDKind     string
	flagLLMProvider string
	flagLLMModel   string
	flagJSONLog    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <graph.json>",
	Short: "Run a generation pass over a JSON-described object graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagLang, "lang", "c", "target language tag recorded on the run")
	generateCmd.Flags().StringVar(&flagDriver, "driver", "c", "backend driver: null, c, or docai (wraps c)")
	generateCmd.Flags().StringVar(&flagOut, "out", ".", "output directory for generated files")
	generateCmd.Flags().StringVar(&flagPrefix, "prefix", "out", "file-name prefix the C driver uses")
	generateCmd.Flags().StringVar(&flagIDKind, "id-kind", "default", "identifier case rule: default, upper-class, lower-class")
	generateCmd.Flags().StringVar(&flagLLMProvider, "llm-provider", "", "doc-comment LLM provider for --driver docai: anthropic, openai, google")
	generateCmd.Flags().StringVar(&flagLLMModel, "llm-model", "", "model name for --llm-provider (defaults per provider)")
	generateCmd.Flags().BoolVar(&flagJSONLog, "json-log", false, "emit JSONL run events instead of text")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cortogen: open graph: %w", err)
	}
	defer f.Close()

	nodes, root, err := objmodel.LoadGraph(f)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("cortogen: graph %q declares no objects", args[0])
	}

	idKind, err := parseIDKind(flagIDKind)
	if err != nil {
		return err
	}

	d, err := buildDriver()
	if err != nil {
		return err
	}

	opts := []host.Option{
		host.WithDriver(d),
		host.WithOutputDir(flagOut),
		host.WithIDKind(idKind),
		host.WithEmitter(emit.NewLogEmitter(os.Stderr, flagJSONLog)),
	}
	if root != nil {
		opts = append(opts, host.WithScopeRoot(root))
	}

	h := host.New("cortogen", flagLang, opts...)

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := nodes[id]
		if root != nil && n.ID() == root.ID() {
			continue
		}
		if n.ParentOf() == nil {
			h.AddRoot(host.RootSpec{Object: n, ParseSelf: true, ParseScope: true, Prefix: flagPrefix})
		}
	}
	if len(h.Roots()) == 0 && root != nil {
		h.AddRoot(host.RootSpec{Object: root, ParseSelf: true, ParseScope: true, Prefix: flagPrefix})
	}

	if err := h.Run(context.Background()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "generated %d root(s) into %s\n", len(h.Roots()), flagOut)
	return nil
}

func parseIDKind(s string) (host.IDKind, error) {
	switch s {
	case "", "default":
		return host.IDKindDefault, nil
	case "upper-class":
		return host.IDKindUpperClass, nil
	case "lower-class":
		return host.IDKindLowerClass, nil
	default:
		return 0, fmt.Errorf("cortogen: unknown --id-kind %q", s)
	}
}

func buildDriver() (host.Driver, error) {
	switch flagDriver {
	case "null":
		return driver.Null{}, nil
	case "c":
		return driver.C{Prefix: flagPrefix}, nil
	case "docai":
		model, err := buildChatModel()
		if err != nil {
			return nil, err
		}
		return docai.NewDecorator(driver.C{Prefix: flagPrefix}, model), nil
	default:
		return nil, fmt.Errorf("cortogen: unknown --driver %q", flagDriver)
	}
}

func buildChatModel() (docai.ChatModel, error) {
	switch flagLLMProvider {
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("cortogen: ANTHROPIC_API_KEY is required for --llm-provider anthropic")
		}
		return docai.NewAnthropicModel(key, flagLLMModel), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("cortogen: OPENAI_API_KEY is required for --llm-provider openai")
		}
		return docai.NewOpenAIModel(key, flagLLMModel), nil
	case "google":
		key := os.Getenv("GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("cortogen: GOOGLE_API_KEY is required for --llm-provider google")
		}
		return docai.NewGoogleModel(key, flagLLMModel), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("cortogen: unknown --llm-provider %q", flagLLMProvider)
	}
}
