// Package um implements the execution engine of the Universal Machine: eight
// 32-bit registers, a program counter into segment zero and a
// fetch-decode-dispatch loop over the fourteen opcodes.
//
// A machine runs on the calling goroutine until HALT or a fatal error.
// Fatal errors are returned from Run wrapping one of the umerrors sentinels;
// after one, the machine stays faulted.
package um

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/colorfulnotion/um/log"
	"github.com/colorfulnotion/um/program"
	"github.com/colorfulnotion/um/segment"
	"github.com/colorfulnotion/um/umerrors"
	"golang.org/x/exp/slices"
)

// State of a machine.
type State uint8

const (
	Running State = iota
	Halted        // HALT executed
	Faulted       // a fatal error stopped execution
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// interruptMask sets how often Run polls its context.
const interruptMask = 1<<16 - 1

// VM is one machine instance. It owns its registers and segments exclusively
// and is not safe for concurrent use.
type VM struct {
	registers [program.NumRegisters]uint32
	pc        uint32
	code      []uint32 // segment zero, refreshed after LOADP
	mem       *segment.Manager
	state     State
	fault     error
	steps     uint64

	in     *bufio.Reader
	out    *bufio.Writer
	closed bool

	Name string
}

// NewVM installs a copy of p as segment zero.
func NewVM(p *program.Program, cfg Config) *VM {
	in, out := cfg.Input, cfg.Output
	if in == nil {
		in = eofReader{}
	}
	if out == nil {
		out = io.Discard
	}
	mem := segment.New(slices.Clone(p.Words), cfg.SegmentCapacity)
	vm := &VM{
		mem:  mem,
		code: mem.Program(),
		in:   bufio.NewReader(in),
		out:  bufio.NewWriter(out),
		Name: p.Name,
	}
	log.Debug(log.EngineMonitoring, "vm created", "name", p.Name, "words", len(p.Words), "hash", p.Hash.String_short())
	return vm
}

// Run executes instructions until HALT, a fatal error, or ctx is cancelled.
// Cancellation is polled every 65536 instructions; an uncancelled context lets
// a non-halting program run forever.
func (vm *VM) Run(ctx context.Context) error {
	if vm.closed {
		return umerrors.ErrMTornDown
	}
	switch vm.state {
	case Halted:
		return umerrors.ErrEHalted
	case Faulted:
		return vm.fault
	}
	done := ctx.Done()
	for vm.state == Running {
		if done != nil && vm.steps&interruptMask == 0 {
			select {
			case <-done:
				return vm.stop(fmt.Errorf("pc=%d after %d steps: %v: %w", vm.pc, vm.steps, ctx.Err(), umerrors.ErrEInterrupted))
			default:
			}
		}
		if err := vm.step(); err != nil {
			return vm.stop(err)
		}
	}
	if err := vm.flush(); err != nil {
		return vm.stop(err)
	}
	log.Debug(log.EngineMonitoring, "halted", "name", vm.Name, "steps", vm.steps, "segments", vm.mem.Stats().Live)
	return nil
}

func (vm *VM) stop(err error) error {
	// err takes precedence over a flush failure
	_ = vm.flush()
	vm.state = Faulted
	vm.fault = err
	log.Debug(log.EngineMonitoring, "faulted", "name", vm.Name, "steps", vm.steps, "err", err)
	return err
}

// step fetches, decodes and executes one instruction.
func (vm *VM) step() error {
	pc := vm.pc
	if pc >= uint32(len(vm.code)) {
		return fmt.Errorf("pc=%d len=%d: %w", pc, len(vm.code), umerrors.ErrEProgramCounterOverrun)
	}
	inst := program.Instruction(vm.code[pc])
	vm.pc++
	vm.steps++

	var err error
	switch inst.Opcode() {
	case program.CMOV:
		vm.handleCMOV(inst)
	case program.SLOAD:
		err = vm.handleSLOAD(inst)
	case program.SSTORE:
		err = vm.handleSSTORE(inst)
	case program.ADD:
		vm.handleADD(inst)
	case program.MUL:
		vm.handleMUL(inst)
	case program.DIV:
		err = vm.handleDIV(inst)
	case program.NAND:
		vm.handleNAND(inst)
	case program.HALT:
		vm.state = Halted
	case program.MAP:
		err = vm.handleMAP(inst)
	case program.UNMAP:
		err = vm.handleUNMAP(inst)
	case program.OUT:
		err = vm.handleOUT(inst)
	case program.IN:
		err = vm.handleIN(inst)
	case program.LOADP:
		err = vm.handleLOADP(inst)
	case program.LV:
		vm.handleLV(inst)
	default:
		err = umerrors.ErrEInvalidOpcode
	}
	if err != nil {
		return fmt.Errorf("pc=%d %v: %w", pc, inst, err)
	}
	return nil
}

func (vm *VM) flush() error {
	if err := vm.out.Flush(); err != nil {
		return fmt.Errorf("%v: %w", err, umerrors.ErrIOutput)
	}
	return nil
}

// Close flushes pending output and releases every segment. It is safe to call
// more than once.
func (vm *VM) Close() error {
	if vm.closed {
		return nil
	}
	vm.closed = true
	err := vm.flush()
	vm.mem.Teardown()
	vm.code = nil
	return err
}

// Registers returns a copy of the register file.
func (vm *VM) Registers() [program.NumRegisters]uint32 {
	return vm.registers
}

// PC returns the index in segment zero of the next instruction to fetch.
func (vm *VM) PC() uint32 {
	return vm.pc
}

func (vm *VM) State() State {
	return vm.state
}

// Steps returns the number of instructions fetched so far.
func (vm *VM) Steps() uint64 {
	return vm.steps
}

// Segments exposes the segment manager for inspection.
func (vm *VM) Segments() *segment.Manager {
	return vm.mem
}

// eofReader is the input of a machine configured without one.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
