package source

import "strings"

// RegisterReader reads a 32-bit device register; *monitor.Client satisfies
// it.
type RegisterReader interface {
	ReadRegister(addr uint32) (string, error)
}

// Probe names a register worth dumping alongside the pixel poll.
type Probe struct {
	Addr uint32
	Name string
}

// DrawEngineProbes are the draw-engine registers the bridge dumps while
// debugging firmware: command state, last command, counters and the
// framebuffer geometry the device believes it has.
var DrawEngineProbes = []Probe{
	{0x82001000, "state"},
	{0x82001004, "last_cmd"},
	{0x82001010, "cmd_cnt"},
	{0x8200100C, "backing1"},
	{0x82001014, "fb_addr"},
	{0x82001018, "wxh"},
}

// RegisterDump builds a Diagnostics hook that reads each probe over the
// shared monitor channel and logs one combined line.
func RegisterDump(r RegisterReader, probes []Probe, logger Logger) func() error {
	return func() error {
		parts := make([]string, 0, len(probes))
		for _, p := range probes {
			val, err := r.ReadRegister(p.Addr)
			if err != nil {
				return err
			}
			parts = append(parts, p.Name+"="+val)
		}
		logger.Printf("DBG: %s", strings.Join(parts, " | "))
		return nil
	}
}
