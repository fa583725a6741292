// extloc — translates VS Code extension manifests with AI, caching every
// translation in a durable dictionary so repeated runs cost nothing and
// partial progress survives interruption.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vsix-tools/extloc/config"
	"github.com/vsix-tools/extloc/deepseek"
	"github.com/vsix-tools/extloc/dictionary"
	"github.com/vsix-tools/extloc/docjson"
	"github.com/vsix-tools/extloc/i18n"
	"github.com/vsix-tools/extloc/settings"
	"github.com/vsix-tools/extloc/translate"
	"github.com/vsix-tools/extloc/walk"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir string
	ciMode  bool
	verbose bool
)

// ---------------------------------------------------------------------------
// Logging
//
// In CI mode every message becomes a structured single-line annotation.
// Outside CI, warnings and errors always print; informational messages
// print only with --verbose.
// ---------------------------------------------------------------------------

// annotation formats a CI log annotation line.
func annotation(level, msg string) string {
	return fmt.Sprintf("::%s::%s", level, msg)
}

func logInfo(format string, args ...any) {
	if ciMode {
		fmt.Println(annotation("info", fmt.Sprintf(format, args...)))
		return
	}
	if verbose {
		fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
	}
}

func logSuccess(format string, args ...any) {
	if ciMode {
		fmt.Println(annotation("info", fmt.Sprintf(format, args...)))
		return
	}
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	if ciMode {
		fmt.Println(annotation("warning", fmt.Sprintf(format, args...)))
		return
	}
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	if ciMode {
		fmt.Println(annotation("error", fmt.Sprintf(format, args...)))
		return
	}
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "extloc",
		Short: "Translate VS Code extension manifests with AI",
		Long: `extloc — translates the human-readable text of VS Code extension
manifests (package.json, contributions.json) into a target language via
the DeepSeek API.

Every translation is cached in a JSON dictionary the moment it arrives,
so interrupted runs keep their progress and repeated runs make no
redundant API calls. Document files are only rewritten after a full,
successful pass — an interrupt never leaves a half-translated manifest.

Commands:
  translate   Translate the configured documents
  status      Show document and dictionary statistics
  auth        Store or inspect the API key
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().BoolVar(&ciMode, "ci", os.Getenv("GITHUB_ACTIONS") == "true",
		"CI mode: structured log annotations, no live progress bar")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show informational messages")

	root.AddCommand(
		newTranslateCmd(),
		newStatusCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("extloc version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateArgs struct {
	apiKey     string
	keyEnv     string
	language   string
	model      string
	baseURL    string
	dictionary string
	timeout    time.Duration
}

func newTranslateCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate the configured documents",
		Long: `Translate all documents declared in .extloc.yaml (or, without one,
package.json and contributions.json in the project root).

The API key is resolved in order: --api-key, the variable named by
--key-env, $` + settings.DefaultKeyEnv + `, then the stored credentials
(see "extloc auth"). A .env file in the working directory is loaded
first.`,
		Run: func(cmd *cobra.Command, args []string) {
			runTranslate(a)
		},
	}

	cmd.Flags().StringVarP(&a.apiKey, "api-key", "k", "", "DeepSeek API key")
	cmd.Flags().StringVarP(&a.keyEnv, "key-env", "K", "", "Environment variable holding the API key")
	cmd.Flags().StringVar(&a.language, "language", "", "Target language name (default from config)")
	cmd.Flags().StringVar(&a.model, "model", "", "Model identifier (default from config)")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "API base URL override")
	cmd.Flags().StringVar(&a.dictionary, "dictionary", "", "Dictionary file path override")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (default 60s)")

	return cmd
}

func runTranslate(a translateArgs) {
	// A .env file, if present, feeds the environment before key resolution.
	_ = godotenv.Load()

	cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	if a.language != "" {
		cfg.Language = a.language
	}
	if a.model != "" {
		cfg.Model = a.model
	}
	if a.dictionary != "" {
		cfg.Dictionary = a.dictionary
	}

	apiKey, source := settings.ResolveAPIKey(a.apiKey, a.keyEnv)
	if apiKey == "" {
		logError("%s", i18n.T("No API key provided"))
		logError("%v", translate.ErrMissingCredential)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  extloc translate                       # use $"+settings.DefaultKeyEnv)
		fmt.Fprintln(os.Stderr, "  extloc translate --api-key YOUR_KEY    # pass the key directly")
		fmt.Fprintln(os.Stderr, "  extloc translate --key-env CUSTOM_VAR  # read a custom variable")
		fmt.Fprintln(os.Stderr, "  extloc auth set --api-key YOUR_KEY     # store the key")
		os.Exit(1)
	}
	logInfo("API key from %s (%s)", source, settings.MaskKey(apiKey))

	baseURL := a.baseURL
	if baseURL == "" {
		if creds := settings.Load(); creds != nil {
			baseURL = creds.BaseURL
		}
	}

	docs, err := resolveDocuments(cfg)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	dictPath := filepath.Join(rootDir, cfg.Dictionary)
	dict, err := dictionary.Load(dictPath)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	if dict.Len() > 0 {
		logInfo(i18n.T("Dictionary loaded: %d entries"), dict.Len())
	}

	provider := deepseek.New(deepseek.Config{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       cfg.Model,
		Language:    cfg.Language,
		Temperature: cfg.Temperature,
		Timeout:     a.timeout,
	})

	logInfo(i18n.T("Target language: %s"), cfg.Language)
	logInfo(i18n.T("Temperature: %g"), cfg.Temperature)
	if !ciMode {
		logInfo("%s", i18n.T("Press Ctrl+C to interrupt at any time; the dictionary saves automatically"))
	}

	// The signal goroutine only cancels; the dictionary handle stays owned
	// here and the save happens on the unwound path below.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logWarning("%s", i18n.T("Interrupt received, saving dictionary..."))
		cancel()
	}()

	stats, err := translate.Run(ctx, docs, translate.Options{
		Dictionary: dict,
		Provider:   provider,
		Plain:      ciMode,
		OnLog:      logInfo,
		OnWarn:     logWarning,
	})
	if err != nil {
		if ctx.Err() != nil {
			if saveErr := dict.Save(); saveErr != nil {
				logError("%v", saveErr)
				os.Exit(1)
			}
			logSuccess(i18n.T("Dictionary saved to %s"), dictPath)
			os.Exit(0)
		}
		logError("%v", err)
		os.Exit(1)
	}

	logSuccess(i18n.T("Translation complete! API calls: %d | cache hits: %d"),
		stats.APICalls, stats.CacheHits)
	logSuccess(i18n.T("Dictionary saved to %s"), dictPath)
}

// resolveDocuments maps config documents to runner documents.
func resolveDocuments(cfg *config.File) ([]translate.Document, error) {
	var docs []translate.Document
	for _, d := range cfg.Documents {
		rule, err := walk.RuleFor(d.Schema)
		if err != nil {
			return nil, err
		}
		docs = append(docs, translate.Document{
			Path:    filepath.Join(rootDir, d.Path),
			Rule:    rule,
			Indent:  d.Indent,
			Primary: d.Primary,
		})
	}
	return docs, nil
}

// ---------------------------------------------------------------------------
// status (read-only)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show document and dictionary statistics",
		Long: `Show the configured documents with their translatable field counts,
and the dictionary location and size. Does not modify any files and
makes no API calls.`,
		Run: func(cmd *cobra.Command, args []string) {
			runStatus()
		},
	}
}

func runStatus() {
	cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\n%sDocuments%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	docs, err := resolveDocuments(cfg)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	for _, doc := range docs {
		count, err := countDocument(doc)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "  %-24s %s (missing)\n", doc.Path, doc.Rule.Name())
			} else {
				fmt.Fprintf(os.Stderr, "  %-24s %v\n", doc.Path, err)
			}
			continue
		}
		marker := ""
		if doc.Primary {
			marker = " *"
		}
		fmt.Fprintf(os.Stderr, "  %-24s %-14s %d translatable fields%s\n",
			doc.Path, doc.Rule.Name(), count, marker)
	}

	dictPath := filepath.Join(rootDir, cfg.Dictionary)
	fmt.Fprintf(os.Stderr, "\n%sDictionary%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	dict, err := dictionary.Load(dictPath)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "  Path:       %s\n", dictPath)
	fmt.Fprintf(os.Stderr, "  Entries:    %d\n", dict.Len())
	fmt.Fprintf(os.Stderr, "  Language:   %s\n", cfg.Language)
	fmt.Fprintf(os.Stderr, "  Model:      %s\n", cfg.Model)
	fmt.Fprintln(os.Stderr)
}

func countDocument(doc translate.Document) (int, error) {
	root, err := docjson.ParseFile(doc.Path)
	if err != nil {
		return 0, err
	}
	return walk.Count(root, doc.Rule), nil
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	auth := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API key",
	}

	var setKey, setBaseURL string
	set := &cobra.Command{
		Use:   "set",
		Short: "Store the API key",
		Run: func(cmd *cobra.Command, args []string) {
			if setKey == "" {
				logError("--api-key is required")
				os.Exit(1)
			}
			if err := settings.Save(&settings.Credentials{Key: setKey, BaseURL: setBaseURL}); err != nil {
				logError("%v", err)
				os.Exit(1)
			}
			logSuccess("API key stored in %s", settings.FilePath())
		},
	}
	set.Flags().StringVarP(&setKey, "api-key", "k", "", "DeepSeek API key to store")
	set.Flags().StringVar(&setBaseURL, "base-url", "", "API base URL to store")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the stored API key (masked)",
		Run: func(cmd *cobra.Command, args []string) {
			creds := settings.Load()
			if creds == nil || creds.Key == "" {
				logWarning("no stored credentials (%s)", settings.FilePath())
				return
			}
			fmt.Fprintf(os.Stderr, "  Key:      %s\n", settings.MaskKey(creds.Key))
			if creds.BaseURL != "" {
				fmt.Fprintf(os.Stderr, "  BaseURL:  %s\n", creds.BaseURL)
			}
			fmt.Fprintf(os.Stderr, "  Stored:   %s\n", settings.FilePath())
		},
	}

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Delete the stored API key",
		Run: func(cmd *cobra.Command, args []string) {
			if err := settings.Remove(); err != nil {
				logError("%v", err)
				os.Exit(1)
			}
			logSuccess("stored credentials removed")
		},
	}

	auth.AddCommand(set, show, remove)
	return auth
}
