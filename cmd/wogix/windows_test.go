package main

import (
	"bytes"
	"testing"

	"github.com/1broseidon/wogix/internal/wm"
)

func TestWriteTSV(t *testing.T) {
	name := "xterm"
	var buf bytes.Buffer
	writeTSV(&buf, []wm.Snapshot{
		{ID: 0x400001, ResourceName: &name, Title: "shell", Mapped: true, Width: 80, Height: 24},
	})

	want := "ID\tNAME\tCLASS\tTITLE\tSTATE\tGEOMETRY\n" +
		"0x400001\txterm\t-\tshell\tmapped\t80x24+0+0\n"
	if buf.String() != want {
		t.Errorf("writeTSV() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestCheckFilter(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"  ", false},
		{"mapped", false},
		{"{name: XTerm}", false},
		{"{re_title: '('}", true},
		{"{bogus: 1}", true},
	}
	for _, tt := range tests {
		if err := checkFilter(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("checkFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestParseWindowID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"0x400001", 0x400001, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseWindowID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseWindowID(%q) = %d, %v", tt.in, got, err)
		}
	}
}
