package um

import (
	"errors"
	"fmt"
	"io"

	"github.com/colorfulnotion/um/program"
	"github.com/colorfulnotion/um/umerrors"
)

const eofValue = 0xFFFFFFFF

// Arithmetic and logic

func (vm *VM) handleCMOV(inst program.Instruction) {
	if vm.registers[inst.C()] != 0 {
		vm.registers[inst.A()] = vm.registers[inst.B()]
	}
}

func (vm *VM) handleADD(inst program.Instruction) {
	vm.registers[inst.A()] = vm.registers[inst.B()] + vm.registers[inst.C()]
}

func (vm *VM) handleMUL(inst program.Instruction) {
	vm.registers[inst.A()] = vm.registers[inst.B()] * vm.registers[inst.C()]
}

func (vm *VM) handleDIV(inst program.Instruction) error {
	divisor := vm.registers[inst.C()]
	if divisor == 0 {
		return umerrors.ErrADivideByZero
	}
	vm.registers[inst.A()] = vm.registers[inst.B()] / divisor
	return nil
}

func (vm *VM) handleNAND(inst program.Instruction) {
	vm.registers[inst.A()] = ^(vm.registers[inst.B()] & vm.registers[inst.C()])
}

func (vm *VM) handleLV(inst program.Instruction) {
	vm.registers[inst.LoadRegister()] = inst.Immediate()
}

// Segmented memory

func (vm *VM) handleSLOAD(inst program.Instruction) error {
	v, err := vm.mem.Load(vm.registers[inst.B()], vm.registers[inst.C()])
	if err != nil {
		return err
	}
	vm.registers[inst.A()] = v
	return nil
}

func (vm *VM) handleSSTORE(inst program.Instruction) error {
	return vm.mem.Store(vm.registers[inst.A()], vm.registers[inst.B()], vm.registers[inst.C()])
}

func (vm *VM) handleMAP(inst program.Instruction) error {
	handle, err := vm.mem.Map(vm.registers[inst.C()])
	if err != nil {
		return err
	}
	vm.registers[inst.B()] = handle
	return nil
}

func (vm *VM) handleUNMAP(inst program.Instruction) error {
	return vm.mem.Unmap(vm.registers[inst.C()])
}

// handleLOADP sets the program counter from register C before segment zero is
// replaced by the segment named in register B.
func (vm *VM) handleLOADP(inst program.Instruction) error {
	target := vm.registers[inst.C()]
	handle := vm.registers[inst.B()]
	vm.pc = target
	if handle == 0 {
		return nil
	}
	if err := vm.mem.LoadProgram(handle); err != nil {
		return err
	}
	vm.code = vm.mem.Program()
	return nil
}

// I/O

func (vm *VM) handleOUT(inst program.Instruction) error {
	v := vm.registers[inst.C()]
	if v > 0xFF {
		return fmt.Errorf("value %d: %w", v, umerrors.ErrIOutputRange)
	}
	if err := vm.out.WriteByte(byte(v)); err != nil {
		return fmt.Errorf("%v: %w", err, umerrors.ErrIOutput)
	}
	return nil
}

func (vm *VM) handleIN(inst program.Instruction) error {
	// a prompt must be visible before blocking on input
	if vm.out.Buffered() > 0 {
		if err := vm.flush(); err != nil {
			return err
		}
	}
	b, err := vm.in.ReadByte()
	switch {
	case err == nil:
		vm.registers[inst.C()] = uint32(b)
	case errors.Is(err, io.EOF):
		vm.registers[inst.C()] = eofValue
	default:
		return fmt.Errorf("%v: %w", err, umerrors.ErrIInput)
	}
	return nil
}
