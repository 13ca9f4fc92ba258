package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestYesNoAndOrDash(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("yesNo mismatch")
	}
	if orDash("") != "-" || orDash("  ") != "-" || orDash("x") != "x" {
		t.Fatal("orDash mismatch")
	}
	if joinOrDash(nil) != "-" || joinOrDash([]string{"a", "b"}) != "a, b" {
		t.Fatal("joinOrDash mismatch")
	}
}

func TestFormatBytesInt64(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range tests {
		if got := formatBytesInt64(tc.in); got != tc.want {
			t.Errorf("formatBytesInt64(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{90 * time.Minute, "1h30m"},
	}
	for _, tc := range tests {
		if got := formatAge(tc.in); got != tc.want {
			t.Errorf("formatAge(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConfirmDestructive(t *testing.T) {
	newCmd := func(input string) (*cobra.Command, *bytes.Buffer) {
		cmd := &cobra.Command{}
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetIn(strings.NewReader(input))
		return cmd, out
	}

	cmd, _ := newCmd("y\n")
	ok, err := confirmDestructive(cmd, false, "This deletes everything")
	if err != nil || !ok {
		t.Fatalf("expected confirmation, got ok=%v err=%v", ok, err)
	}

	cmd, _ = newCmd("n\n")
	ok, err = confirmDestructive(cmd, false, "This deletes everything")
	if err != nil || ok {
		t.Fatalf("expected decline, got ok=%v err=%v", ok, err)
	}

	cmd, out := newCmd("")
	ok, err = confirmDestructive(cmd, true, "This deletes everything")
	if err != nil || !ok {
		t.Fatalf("--yes should skip the prompt, got ok=%v err=%v", ok, err)
	}
	if out.Len() != 0 {
		t.Fatal("--yes should not print a prompt")
	}
}
