package executil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteCmdArg(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"plain", "foo", `^"foo^"`},
		{"spaces", "a b", `^"a b^"`},
		{"percent escaped", "100%", `^"100^%^"`},
		{"bang escaped", "hi!", `^"hi^!^"`},
		{"embedded quotes", `say "hi"`, `^"say \^"hi\^"^"`},
		{"metacharacters", "a&b|c", `^"a^&b^|c^"`},
		{"redirects", "<in >out", `^"^<in ^>out^"`},
		{"parens", "(x)", `^"^(x^)^"`},
		{"trailing backslash doubled", `C:\dir\`, `^"C:\dir\\^"`},
		{"empty", "", `^"^"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteCmdArg(tt.arg))
		})
	}
}

func TestBuildCmdLine(t *testing.T) {
	line := BuildCmdLine(`C:\tools\claude.cmd`, []string{"--version", "100%"})
	assert.Equal(t, `^"C:\tools\claude.cmd^" ^"--version^" ^"100^%^"`, line)
}
