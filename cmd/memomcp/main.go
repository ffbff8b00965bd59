// Command memomcp exposes the memo and web-reading tools two ways: a one-shot
// CLI that runs a single tool and exits, and an MCP stdio server (memomcp serve).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"memomcp/internal/config"
	"memomcp/internal/logging"
	"memomcp/internal/tools"
	"memomcp/internal/toolset"
)

// cli holds flag values and the state built by the persistent pre-run.
type cli struct {
	// Global flags
	configPath string
	memoDir    string
	verbose    bool

	// One-shot flags
	list     bool
	toolName string
	argsJSON string
	render   bool

	cfg         *config.Config
	newRegistry func(*config.Config) (*tools.Registry, error)
	skipDotEnv  bool
	initLogger  func(level, format string) error
}

func newCLI() *cli {
	return &cli{
		newRegistry: toolset.Default,
		initLogger:  logging.Initialize,
	}
}

// rootCommand builds the command tree. Output goes to cmd.OutOrStdout so
// tests can capture it.
func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "memomcp",
		Short: "Markdown memo and URL reading tools, as a CLI or an MCP server",
		Long: `memomcp runs one tool and prints its result, or serves every tool
over the Model Context Protocol on stdio (memomcp serve).

Memo tools store Markdown files in the directory named by MD_MEMO_DIR.

Examples:
  memomcp --list
  memomcp --tool getStringLength --args '{"input":"hello"}'
  memomcp -t saveMdMemoFile -a '{"title":"todo","content":"# Todo"}'
  memomcp serve`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
		RunE: c.runOneShot,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "Path to a YAML config file")
	pf.StringVar(&c.memoDir, "memo-dir", "", "Memo directory (overrides "+config.EnvMemoDir+")")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	f := root.Flags()
	f.BoolVarP(&c.list, "list", "l", false, "List every available tool")
	f.StringVarP(&c.toolName, "tool", "t", "", "Name of the tool to run")
	f.StringVarP(&c.argsJSON, "args", "a", "{}", "Tool arguments as a JSON object")
	f.BoolVarP(&c.render, "render", "r", false, "Render Markdown output for the terminal")

	root.AddCommand(c.serveCommand(), c.versionCommand())
	return root
}

// setup loads .env, the config file and environment overrides, then starts
// the stderr logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if !c.skipDotEnv {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.memoDir != "" {
		cfg.Memo.Dir = c.memoDir
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := c.initLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logging.BootDebug("config loaded: memo dir %q, http timeout %s", cfg.Memo.Dir, cfg.GetHTTPTimeout())
	c.cfg = cfg
	return nil
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.cfg.Name, c.cfg.Version)
		},
	}
}

func main() {
	c := newCLI()
	if err := c.rootCommand().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
