package um

import (
	"io"
	"os"

	"github.com/colorfulnotion/um/segment"
)

// Config wires a machine to its byte streams and sizes its segment table.
type Config struct {
	Input           io.Reader // consumed one byte per IN instruction
	Output          io.Writer // receives one byte per OUT instruction
	SegmentCapacity int       // initial segment table slots; <= 0 selects the default
}

// DefaultConfig runs against the process's standard streams.
func DefaultConfig() Config {
	return Config{
		Input:           os.Stdin,
		Output:          os.Stdout,
		SegmentCapacity: segment.DefaultCapacity,
	}
}
