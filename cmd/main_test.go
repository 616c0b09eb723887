package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "none", args: []string{"scan", "--init"}, want: nil},
		{name: "short after subcommand", args: []string{"scan", "-c", "prod.yml"}, want: []string{"-c", "prod.yml"}},
		{name: "long", args: []string{"--config", "x.yml", "scan"}, want: []string{"-c", "x.yml"}},
		{name: "short equals", args: []string{"-c=a.yml"}, want: []string{"-c=a.yml"}},
		{name: "long equals", args: []string{"scan", "--config=b.yml"}, want: []string{"-c=b.yml"}},
		{name: "dangling", args: []string{"scan", "-c"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, configArgs(tt.args))
		})
	}
}
