package process

import (
	"errors"
	"testing"

	"github.com/winmcp/winmcp/internal/platform"
)

type fakeAPI struct {
	procs  []platform.ProcessInfo
	names  map[int]string
	killed []int
}

func (f *fakeAPI) ResolveName(pid int) (string, error) {
	name, ok := f.names[pid]
	if !ok {
		return "", errors.New("no such process")
	}
	return name, nil
}

func (f *fakeAPI) List() ([]platform.ProcessInfo, error) { return f.procs, nil }

func (f *fakeAPI) Kill(pid int) error {
	f.killed = append(f.killed, pid)
	return nil
}

func TestIsProtected(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"csrss.exe", true},
		{"CSRSS.EXE", true},
		{"  lsass.exe ", true},
		{"System", true},
		{"Memory Compression", true},
		{"notepad.exe", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsProtected(tt.name); got != tt.want {
			t.Errorf("IsProtected(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestListSortsByMemory(t *testing.T) {
	api := &fakeAPI{procs: []platform.ProcessInfo{
		{PID: 1, Name: "small.exe", Memory: 100},
		{PID: 2, Name: "big.exe", Memory: 9000},
		{PID: 3, Name: "mid.exe", Memory: 500},
	}}
	svc := NewService(api, nil)

	procs, err := svc.List("", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if procs[0].Name != "big.exe" || procs[2].Name != "small.exe" {
		t.Errorf("not sorted by memory desc: %+v", procs)
	}
}

func TestListFilterAndLimit(t *testing.T) {
	api := &fakeAPI{procs: []platform.ProcessInfo{
		{PID: 1, Name: "chrome.exe", Memory: 300},
		{PID: 2, Name: "Chrome Helper.exe", Memory: 200},
		{PID: 3, Name: "notepad.exe", Memory: 100},
	}}
	svc := NewService(api, nil)

	procs, err := svc.List("chrome", 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(procs) != 1 || procs[0].Name != "chrome.exe" {
		t.Errorf("filter+limit gave %+v", procs)
	}
}

func TestKillRefusesProtected(t *testing.T) {
	api := &fakeAPI{names: map[int]string{100: "lsass.exe", 200: "notepad.exe"}}
	svc := NewService(api, nil)

	if err := svc.Kill(100); err == nil {
		t.Fatal("killing lsass.exe succeeded, want refusal")
	}
	if len(api.killed) != 0 {
		t.Errorf("protected process was terminated: %v", api.killed)
	}

	if err := svc.Kill(200); err != nil {
		t.Fatalf("Kill(200): %v", err)
	}
	if len(api.killed) != 1 || api.killed[0] != 200 {
		t.Errorf("killed = %v, want [200]", api.killed)
	}
}

func TestKillUnresolvableNameStillKills(t *testing.T) {
	// A pid whose name cannot be read is not assumed protected.
	api := &fakeAPI{names: map[int]string{}}
	svc := NewService(api, nil)
	if err := svc.Kill(300); err != nil {
		t.Fatalf("Kill(300): %v", err)
	}
	if len(api.killed) != 1 {
		t.Errorf("killed = %v, want [300]", api.killed)
	}
}
