package executil

import (
	"regexp"
	"strings"
)

var (
	cmdBackslashQuote    = regexp.MustCompile(`(\\*)"`)
	cmdTrailingBackslash = regexp.MustCompile(`(\\*)$`)
	cmdMetachar          = regexp.MustCompile(`[()%!^"<>&|]`)
)

// QuoteCmdArg escapes a single argument for the Windows command interpreter.
// The argument is surrounded with double quotes, backslash sequences before
// quotes are doubled, and every cmd.exe metacharacter (including % and !,
// which survive ordinary quoting) is caret-escaped.
func QuoteCmdArg(arg string) string {
	arg = cmdBackslashQuote.ReplaceAllString(arg, `$1$1\"`)
	arg = cmdTrailingBackslash.ReplaceAllString(arg, `$1$1`)
	arg = `"` + arg + `"`
	return cmdMetachar.ReplaceAllString(arg, `^$0`)
}

// BuildCmdLine joins a script path and its arguments into a single command
// line safe to hand to cmd.exe.
func BuildCmdLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, QuoteCmdArg(name))
	for _, a := range args {
		parts = append(parts, QuoteCmdArg(a))
	}
	return strings.Join(parts, " ")
}
