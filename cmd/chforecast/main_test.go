package main

import (
	"reflect"
	"testing"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{arg: "7", want: 7},
		{arg: "30", want: 30},
		{arg: "0", wantErr: true},
		{arg: "-3", wantErr: true},
		{arg: "week", wantErr: true},
		{arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseInterval(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseInterval(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestSplitTables(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want []string
	}{
		{
			name: "single table",
			arg:  "bucket_a",
			want: []string{"bucket_a"},
		},
		{
			name: "multiple tables",
			arg:  "bucket_a,bucket_b",
			want: []string{"bucket_a", "bucket_b"},
		},
		{
			name: "whitespace trimmed",
			arg:  " bucket_a , bucket_b ",
			want: []string{"bucket_a", "bucket_b"},
		},
		{
			name: "empty entries dropped",
			arg:  "bucket_a,,bucket_b,",
			want: []string{"bucket_a", "bucket_b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitTables(tt.arg)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTables(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}
