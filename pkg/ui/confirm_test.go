package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/arthur-debert/aisetup/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleConfirmer(t *testing.T) {
	a := types.Artifact{RelPath: "review", Category: types.CategorySkill, SourceRoot: "/src/skills"}
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			c := ui.NewConsoleConfirmer(strings.NewReader(tt.input), &out)

			ok, err := c.ConfirmOverwrite("/home/u/.claude/skills/review", a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "/home/u/.claude/skills/review exists")
			assert.Contains(t, out.String(), "[y/N]")
		})
	}
}

func TestConsoleConfirmerEOF(t *testing.T) {
	c := ui.NewConsoleConfirmer(strings.NewReader(""), &bytes.Buffer{})
	ok, err := c.ConfirmOverwrite("/x", types.Artifact{})
	assert.Error(t, err)
	assert.False(t, ok)
}
