package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/quill/internal/gitctx"
	"github.com/spf13/cobra"
)

const (
	hookName        = "prepare-commit-msg"
	hookMarkerStart = "# >>> quill prepare-commit-msg hook >>>"
	hookMarkerEnd   = "# <<< quill prepare-commit-msg hook <<<"
)

var hookLanguage string

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git prepare-commit-msg hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install quill as a git prepare-commit-msg hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath()
		if err != nil {
			return err
		}

		section := generateHookScript(hookLanguage)

		existing, err := os.ReadFile(hookPath)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reading hook file: %w", err)
		}

		var content string
		if len(existing) == 0 {
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceQuillSection(string(existing), section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			return fmt.Errorf("creating hooks directory: %w", err)
		}
		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			return fmt.Errorf("writing hook file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed quill %s hook at %s\n", hookName, hookPath)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the quill prepare-commit-msg hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath()
		if err != nil {
			return err
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s hook found.\n", hookName)
				return nil
			}
			return fmt.Errorf("reading hook file: %w", err)
		}

		content := removeQuillSection(string(existing))

		// Only a shebang left: delete the file
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				return fmt.Errorf("removing hook file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed quill %s hook at %s\n", hookName, hookPath)
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			return fmt.Errorf("writing hook file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed quill section from %s\n", hookPath)
		return nil
	},
}

func getHookPath() (string, error) {
	gitDir, err := gitctx.GitDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(gitDir, "hooks", hookName), nil
}

// generateHookScript only fills the message for a plain `git commit`: git
// passes a second argument when the message comes from -m, -F, a merge,
// a squash or an amend.
func generateHookScript(language string) string {
	cmd := `quill --write "$1"`
	if language != "" {
		cmd += fmt.Sprintf(" --language %q", language)
	}
	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	b.WriteString("if [ -z \"$2\" ] && command -v quill >/dev/null 2>&1; then\n")
	fmt.Fprintf(&b, "  %s >/dev/null 2>&1 || true\n", cmd)
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

func replaceQuillSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := strings.TrimPrefix(existing[endIdx+len(hookMarkerEnd):], "\n")
	return before + section + after
}

func removeQuillSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return existing
	}

	before := existing[:startIdx]
	after := strings.TrimPrefix(existing[endIdx+len(hookMarkerEnd):], "\n")
	return before + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookInstallCmd.Flags().StringVar(&hookLanguage, "language", "", "Language passed to quill from the hook")
}
