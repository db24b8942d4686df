package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestOneShotCommandFlags(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"add", newAddCmd(), "add <video> <subtitle>", []string{"out", "lang", "title", "default"}},
		{"remove", newRemoveCmd(), "remove <video>", []string{"out", "track"}},
		{"set-default", newSetDefaultCmd(), "set-default <video>", []string{"out", "track"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd.Use != tt.use {
				t.Errorf("Use = %q, want %q", tt.cmd.Use, tt.use)
			}
			for _, flag := range tt.flags {
				if tt.cmd.Flags().Lookup(flag) == nil {
					t.Errorf("missing --%s flag", flag)
				}
			}
		})
	}
}

func TestOneShotCommandsRequireOut(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
		args []string
	}{
		{"add", newAddCmd(), []string{"in.mkv", "subs.srt"}},
		{"remove", newRemoveCmd(), []string{"in.mkv", "--track", "1"}},
		{"set-default", newSetDefaultCmd(), []string{"in.mkv", "--track", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cmd.SilenceUsage = true
			tt.cmd.SilenceErrors = true
			tt.cmd.SetArgs(tt.args)
			err := tt.cmd.Execute()
			if err == nil || !strings.Contains(err.Error(), "out") {
				t.Errorf("expected missing --out error, got %v", err)
			}
		})
	}
}
