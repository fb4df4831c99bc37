// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "ab", 1},
		{"ab", "abc", 1},
		{"abc", "bac", 2},
		{"kitten", "sitting", 3},
		{"terminate", "termiante", 2},
		{"exec", "exce", 2},
		{"init", "int", 1},
	}

	for _, test := range tests {
		t.Run(test.a+"->"+test.b, func(t *testing.T) {
			if got := levenshtein(test.a, test.b); got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
			if reverse := levenshtein(test.b, test.a); reverse != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, not symmetric", test.b, test.a, reverse)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "connect"},
		{Name: "init"},
		{Name: "exec"},
		{Name: "terminate"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"conect", "connect"},
		{"ini", "init"},
		{"exe", "exec"},
		{"termnate", "terminate"},
		{"shutdown-everything", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flagSet.Bool("verbose", false, "")
		flagSet.String("config", "", "")
		flagSet.String("wire", "line", "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "typo", args: []string{"--verbos"}, want: "--verbose"},
		{name: "typo with value", args: []string{"--confg=x.yaml"}, want: "--config"},
		{name: "known flags skipped", args: []string{"--verbose", "--wrie", "line"}, want: "--wire"},
		{name: "nothing close", args: []string{"--completely-different"}, want: ""},
		{name: "stops at positional", args: []string{"addr", "--verbos"}, want: ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
