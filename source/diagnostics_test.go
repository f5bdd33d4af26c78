package source

import (
	"errors"
	"testing"
)

type fakeRegisters struct {
	values map[uint32]string
	err    error
}

func (f *fakeRegisters) ReadRegister(addr uint32) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.values[addr], nil
}

func TestRegisterDump(t *testing.T) {
	regs := &fakeRegisters{values: map[uint32]string{
		0x1000: "0x00000001",
		0x1004: "0x000000FF",
	}}
	log := &logRecorder{}

	dump := RegisterDump(regs, []Probe{
		{0x1000, "state"},
		{0x1004, "last_cmd"},
	}, log)

	if err := dump(); err != nil {
		t.Fatalf("dump() error = %v", err)
	}
	if len(log.lines) != 1 {
		t.Fatalf("logged %d lines, want 1", len(log.lines))
	}
	want := "DBG: state=0x00000001 | last_cmd=0x000000FF"
	if log.lines[0] != want {
		t.Errorf("log line = %q, want %q", log.lines[0], want)
	}
}

func TestRegisterDumpError(t *testing.T) {
	regs := &fakeRegisters{err: errors.New("bus fault")}
	log := &logRecorder{}

	dump := RegisterDump(regs, DrawEngineProbes, log)
	if err := dump(); err == nil {
		t.Error("dump() = nil on register read error, want error")
	}
	if len(log.lines) != 0 {
		t.Errorf("logged %v on failure, want nothing", log.lines)
	}
}

func TestDrawEngineProbes(t *testing.T) {
	if len(DrawEngineProbes) == 0 {
		t.Fatal("DrawEngineProbes is empty")
	}
	seen := map[string]bool{}
	for _, p := range DrawEngineProbes {
		if p.Name == "" {
			t.Errorf("probe at %#x has no name", p.Addr)
		}
		if seen[p.Name] {
			t.Errorf("duplicate probe name %q", p.Name)
		}
		seen[p.Name] = true
	}
}
