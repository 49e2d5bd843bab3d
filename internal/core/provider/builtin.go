package provider

import "strings"

// Builtin returns the catalog of agent CLIs emdash knows how to drive.
// Ordering here is the display order used across the app.
func Builtin() []Definition {
	claude := Definition{
		ID:          "claude",
		Name:        "Claude Code",
		Commands:    []string{"claude"},
		DocsURL:     "https://docs.anthropic.com/en/docs/claude-code",
		InstallHint: "npm install -g @anthropic-ai/claude-code",
	}
	claude.Classify, claude.Message = authOverrides(
		"Run `claude` and sign in to authenticate.",
		"Invalid API key", "/login",
	)

	codex := Definition{
		ID:          "codex",
		Name:        "Codex CLI",
		Commands:    []string{"codex"},
		DocsURL:     "https://github.com/openai/codex",
		InstallHint: "npm install -g @openai/codex",
	}
	codex.Classify, codex.Message = authOverrides(
		"Run `codex login` to authenticate.",
		"Not logged in", "codex login",
	)

	gemini := Definition{
		ID:          "gemini",
		Name:        "Gemini CLI",
		Commands:    []string{"gemini"},
		DocsURL:     "https://github.com/google-gemini/gemini-cli",
		InstallHint: "npm install -g @google/gemini-cli",
	}
	gemini.Classify, gemini.Message = authOverrides(
		"Set GEMINI_API_KEY or run `gemini` to sign in.",
		"GEMINI_API_KEY", "GOOGLE_API_KEY",
	)

	return []Definition{
		claude,
		codex,
		gemini,
		{
			ID:          "cursor",
			Name:        "Cursor Agent",
			Commands:    []string{"cursor-agent", "cursor"},
			DocsURL:     "https://docs.cursor.com/agent",
			InstallHint: "curl https://cursor.com/install -fsS | bash",
		},
		{
			ID:          "opencode",
			Name:        "OpenCode",
			Commands:    []string{"opencode"},
			DocsURL:     "https://opencode.ai/docs",
			InstallHint: "npm install -g opencode-ai",
		},
		{
			ID:          "aider",
			Name:        "Aider",
			Commands:    []string{"aider"},
			DocsURL:     "https://aider.chat",
			InstallHint: "pip install aider-install && aider-install",
		},
		{
			ID:          "amp",
			Name:        "Amp",
			Commands:    []string{"amp"},
			DocsURL:     "https://ampcode.com/manual",
			InstallHint: "npm install -g @sourcegraph/amp",
		},
	}
}

// authOverrides builds a classify/message override pair that reports
// needs_key, with an actionable hint, when the probe output contains any of
// the given markers. A clean run or a silent miss never matches, so a plain
// "not installed" cannot become needs_key.
func authOverrides(hint string, markers ...string) (ClassifyOverride, MessageOverride) {
	matches := func(res ProbeResult) bool {
		if res.Success {
			return false
		}
		out := res.Stdout + "\n" + res.Stderr
		for _, m := range markers {
			if strings.Contains(out, m) {
				return true
			}
		}
		return false
	}

	classify := func(res ProbeResult) (StatusCode, bool) {
		if matches(res) {
			return StatusNeedsKey, true
		}
		return "", false
	}
	message := func(res ProbeResult) (string, bool) {
		if matches(res) {
			return hint, true
		}
		return "", false
	}
	return classify, message
}
