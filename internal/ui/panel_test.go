package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░ 1/2", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░ 0/1", ProgressBar(0, 0, 1))
	assert.Equal(t, "█████ 3/2", ProgressBar(3, 2, 5))
}

func TestFpanelAlignsVisibleWidth(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	Fpanel(&buf, []string{"ab", "\033[31mabcd\033[0m"})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"+------+",
		"| ab   |",
		"| \033[31mabcd\033[0m |",
		"+------+",
	}, lines)
}

func TestOKAndFailUseWriters(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")
	var out, errb bytes.Buffer
	oldOut, oldErr := Out, Err
	Out, Err = &out, &errb
	defer func() { Out, Err = oldOut, oldErr }()

	OK("sent")
	Fail("nope")
	assert.Equal(t, "ok sent\n", out.String())
	assert.Equal(t, "error: nope\n", errb.String())
}
