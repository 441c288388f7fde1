package main

import (
	"testing"
)

func TestCanRunWithoutContainer(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{
			name: "no args",
			args: nil,
			want: true,
		},
		{
			name: "help flag",
			args: []string{"--help"},
			want: true,
		},
		{
			name: "subcommand help",
			args: []string{"add", "-h"},
			want: true,
		},
		{
			name: "version flag",
			args: []string{"--version"},
			want: true,
		},
		{
			name: "help subcommand",
			args: []string{"help", "share"},
			want: true,
		},
		{
			name: "config template",
			args: []string{"config", "template", "--uid", "alice"},
			want: true,
		},
		{
			name: "config show",
			args: []string{"config", "show"},
			want: false,
		},
		{
			name: "config alone",
			args: []string{"config"},
			want: false,
		},
		{
			name: "item command",
			args: []string{"add", "Report"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canRunWithoutContainer(tt.args); got != tt.want {
				t.Fatalf("canRunWithoutContainer(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
