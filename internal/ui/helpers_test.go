package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessContainsPrefixAndMessage(t *testing.T) {
	result := Success("done")
	assert.Contains(t, result, "✓")
	assert.Contains(t, result, "done")
}

func TestErrContainsPrefixAndMessage(t *testing.T) {
	result := Err("boom")
	assert.Contains(t, result, "✗")
	assert.Contains(t, result, "boom")
}

func TestHintContainsMessage(t *testing.T) {
	assert.Contains(t, Hint("try this command"), "try this command")
}

func TestBannerWithoutSubtitle(t *testing.T) {
	out := Banner("BASEBALL BATCHES 001", "")
	assert.Contains(t, out, "BASEBALL BATCHES 001")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "0xf39F…2266", TruncateAddr("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
	assert.Equal(t, "0x1234", TruncateAddr("0x1234"))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "abcd…", pad("abcdefgh", 5))
	assert.Equal(t, "a", pad("abc", 1))
	assert.Equal(t, "—  ", pad("—", 3))
}

func TestTableRender(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Function", Width: 24}, {Title: "Selector", Width: 10}})
	tbl.AddRow(Row{"mint()", "0x1249c58b"})
	tbl.AddRow(Row{"hasMinted(address)"})

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Function")
	assert.Contains(t, lines[1], "----------")
	assert.Contains(t, lines[2], "0x1249c58b")
	assert.Contains(t, lines[3], "hasMinted(address)")
}

func TestKeyValueBlock(t *testing.T) {
	out := KeyValueBlock("Workshop Details", [][2]string{{"Name", "Sour Mash"}})
	assert.Contains(t, out, "Workshop Details")
	assert.Contains(t, out, "Name:")
	assert.Contains(t, out, "Sour Mash")
}

func TestConfirmFrom(t *testing.T) {
	cases := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes ":   true,
		"n\n":     false,
		"\n":      false,
		"":        false,
		"maybe\n": false,
	}
	for in, want := range cases {
		var out bytes.Buffer
		assert.Equal(t, want, ConfirmFrom(strings.NewReader(in), &out, "Remove wallet?"), "input %q", in)
		assert.Contains(t, out.String(), "[y/N]")
	}
}

func TestSpinnerFrameWraps(t *testing.T) {
	assert.Equal(t, SpinnerFrame(0), SpinnerFrame(len(spinnerFrames)))
	assert.NotEmpty(t, SpinnerFrame(-3))
}

func TestSpinnerStartStop(t *testing.T) {
	var out bytes.Buffer
	s := NewSpinnerTo(&out, "benchmarking")
	s.Start()
	s.Stop()
	assert.Contains(t, out.String(), "benchmarking")
}
