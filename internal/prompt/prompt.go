package prompt

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Options tune the wording of the generated prompts.
type Options struct {
	// Language is the natural language for the description and suggestions.
	// The title verb is always English.
	Language string
	// NamingConvention is the identifier style the model checks new
	// variables against. Empty disables the naming check.
	NamingConvention string
}

// Verbs are the title prefixes the model must choose from.
var Verbs = []string{"New", "Update", "Remove", "Refactor", "Fix", "Misc"}

// MaxTitleChars bounds the length of the title line.
const MaxTitleChars = 80

// System returns the system prompt.
func System(opts Options) string {
	var b strings.Builder
	b.WriteString("You are an experienced software developer who writes concise, descriptive Git commit messages.")
	if opts.NamingConvention != "" {
		fmt.Fprintf(&b, " You also review newly introduced variable names and flag any that do not follow %s.", opts.NamingConvention)
	}
	return b.String()
}

// User builds the user prompt around the staged diff.
func User(diff string, files []string, opts Options) string {
	language := opts.Language
	if language == "" {
		language = "English"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a meaningful commit message for the git diff below. Start with an English verb and write the rest in %s.\n", language)
	if opts.NamingConvention != "" {
		b.WriteString("The answer must have 3 parts:\n")
	} else {
		b.WriteString("The answer must have 2 parts:\n")
	}
	fmt.Fprintf(&b, " Title: [%s] summary (at most %d characters)\n\n", strings.Join(Verbs, "|"), MaxTitleChars)
	b.WriteString(" Description: (a bullet list of the changes)\n")

	if langs := detectLanguages(files); len(langs) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(langs, ", "))
	}

	b.WriteString(diff)
	b.WriteString("\n")

	if opts.NamingConvention != "" {
		fmt.Fprintf(&b, "\n Suggest:\n [⚠️ %s check], file:Lline ==> variable\n", opts.NamingConvention)
	}
	return b.String()
}

// Build returns the system and user prompts.
func Build(diff string, files []string, opts Options) (system, user string) {
	return System(opts), User(diff, files, opts)
}

var extLanguages = map[string]string{
	".go":    "Go",
	".swift": "Swift",
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".java":  "Java",
	".kt":    "Kotlin",
	".rb":    "Ruby",
	".rs":    "Rust",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".m":     "Objective-C",
	".sql":   "SQL",
	".sh":    "Shell",
}

func detectLanguages(files []string) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, f := range files {
		if lang, ok := extLanguages[strings.ToLower(filepath.Ext(f))]; ok && !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}
