package util

import (
	"errors"
	"testing"
)

func TestCmdHandler(t *testing.T) {
	type ping struct{ n int }

	cmd := CmdHandler(ping{n: 3})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	got, ok := cmd().(ping)
	if !ok || got.n != 3 {
		t.Errorf("expected ping{3}, got %#v", cmd())
	}
}

func TestReportHelpers(t *testing.T) {
	tests := []struct {
		name string
		msg  InfoMsg
		want InfoMsg
	}{
		{
			name: "error",
			msg:  ReportError(errors.New("boom"))().(InfoMsg),
			want: InfoMsg{Type: InfoTypeError, Msg: "boom"},
		},
		{
			name: "info",
			msg:  ReportInfo("copied")().(InfoMsg),
			want: InfoMsg{Type: InfoTypeInfo, Msg: "copied"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.msg != tt.want {
				t.Errorf("got %#v, want %#v", tt.msg, tt.want)
			}
		})
	}
}
