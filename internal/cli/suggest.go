package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/dshills/quill/internal/cache"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/gitctx"
	"github.com/dshills/quill/internal/llm"
	"github.com/dshills/quill/internal/output"
	"github.com/dshills/quill/internal/suggest"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

// Suggest flags, shared by the root command and `quill suggest`.
var (
	flagModel        string
	flagAPIURL       string
	flagMaxDiffChars int
	flagContextLines int
	flagExclude      string
	flagLanguage     string
	flagFormat       string
	flagCopy         bool
	flagWrite        string
	flagNoRedact     bool
	flagNoCache      bool
	flagVerbose      bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a commit message for the staged changes (default command)",
	Args:  cobra.NoArgs,
	RunE:  runSuggest,
}

func addSuggestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagAPIURL, "api-url", "", "Chat completions endpoint URL")
	cmd.Flags().IntVar(&flagMaxDiffChars, "max-diff-chars", 0, "Maximum diff characters sent to the model (0 disables truncation)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in each file diff")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Additional exclude path globs (comma-separated)")
	cmd.Flags().StringVar(&flagLanguage, "language", "", "Language for the description and suggestions")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json)")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "Copy the message to the clipboard")
	cmd.Flags().StringVar(&flagWrite, "write", "", "Prepend the message to this file (commit message file)")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the suggestion cache")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print debug diagnostics")
}

func buildOverrides(cmd *cobra.Command) map[string]string {
	m := make(map[string]string)
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagAPIURL != "" {
		m["apiURL"] = flagAPIURL
	}
	if cmd.Flags().Changed("max-diff-chars") {
		m["maxDiffChars"] = strconv.Itoa(flagMaxDiffChars)
	}
	if cmd.Flags().Changed("context-lines") {
		m["contextLines"] = strconv.Itoa(flagContextLines)
	}
	if flagExclude != "" {
		m["exclude"] = flagExclude
	}
	if flagLanguage != "" {
		m["language"] = flagLanguage
	}
	return m
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if !slices.Contains(output.Formats, flagFormat) {
		return fmt.Errorf("unsupported output format: %s", flagFormat)
	}
	cfg, err := config.Load(buildOverrides(cmd))
	if err != nil {
		return err
	}
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
	}

	out := cmd.OutOrStdout()
	// JSON output must stay parseable, so diagnostics go to stderr.
	logOut := out
	if flagFormat == "json" {
		logOut = cmd.ErrOrStderr()
	}
	logger := log.New(logOut, "", log.Llevel)
	if flagVerbose {
		logger.SetOutputLevel(log.Ldebug)
	}
	if flagNoRedact {
		logger.Warn("secret redaction is disabled")
	}

	var store suggest.Store
	if cfg.Cache.Enabled && !flagNoCache {
		c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			logger.Warnf("Cache unavailable: %v", err)
		} else {
			store = c
		}
	}

	client := llm.New(llm.Options{
		APIKey:  cfg.APIKey(),
		Model:   cfg.Model,
		BaseURL: cfg.APIURL,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Retries: cfg.Retries,
	})
	engine := suggest.New(cfg, gitctx.NewCollector(nil), client, store, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res := engine.Run(ctx)

	if err := output.Write(out, res, flagFormat); err != nil {
		return err
	}
	if res.NoChanges {
		return nil
	}
	if flagCopy {
		if err := output.Copy(res.Message); err != nil {
			logger.Warnf("%v", err)
		} else {
			logger.Info("Copied to clipboard.")
		}
	}
	if flagWrite != "" && !res.Fallback {
		if err := output.PrependToFile(flagWrite, res.Message); err != nil {
			logger.Errorf("%v", err)
		}
	}
	return nil
}

func init() {
	addSuggestFlags(rootCmd)
	addSuggestFlags(suggestCmd)
}
