package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectIDArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"braid"},
			want: []string{"braid"},
		},
		{
			name: "direct node id first token",
			in:   []string{"braid", "node-abc123"},
			want: []string{"braid", "nodes", "show", "node-abc123"},
		},
		{
			name: "direct container id first token",
			in:   []string{"braid", "cont-abc123"},
			want: []string{"braid", "containers", "show", "cont-abc123"},
		},
		{
			name: "direct id after value flag",
			in:   []string{"braid", "--dir", "./tmp-ws", "node-abc123"},
			want: []string{"braid", "--dir", "./tmp-ws", "nodes", "show", "node-abc123"},
		},
		{
			name: "direct id after equals flag",
			in:   []string{"braid", "--dir=./tmp-ws", "node-abc123"},
			want: []string{"braid", "--dir=./tmp-ws", "nodes", "show", "node-abc123"},
		},
		{
			name: "direct id after bool flag",
			in:   []string{"braid", "--pretty", "node-abc123"},
			want: []string{"braid", "--pretty", "nodes", "show", "node-abc123"},
		},
		{
			name: "direct id after double dash",
			in:   []string{"braid", "--dir", "./tmp-ws", "--", "node-abc123"},
			want: []string{"braid", "--dir", "./tmp-ws", "--", "nodes", "show", "node-abc123"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"braid", "nodes", "show", "node-abc123"},
			want: []string{"braid", "nodes", "show", "node-abc123"},
		},
		{
			name: "unknown token not rewritten",
			in:   []string{"braid", "wat"},
			want: []string{"braid", "wat"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"braid", "node-"},
			want: []string{"braid", "node-"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectIDArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectIDArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
