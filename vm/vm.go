// Package vm implements ParaCL's stack-based virtual machine: a flat byte
// memory split into a stack, a program, and a constant region, executed
// by a fetch-decode-dispatch loop.
package vm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"

	"paracl/compiler"
)

// VM owns a single flat byte buffer covering the stack, program, and
// constant regions of a loaded Image, plus the two registers the
// original design calls out: a stack pointer and an instruction pointer.
type VM struct {
	mem []byte
	sp  int32
	ip  int32

	stackEnd int32
	instrEnd int32

	halted bool

	in  *bufio.Scanner
	out io.Writer
}

// New returns a VM reading input from in and writing output to out. A
// nil in/out defaults to the process's stdin/stdout.
func New(in io.Reader, out io.Writer) *VM {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &VM{in: scanner, out: out}
}

// LoadImage serializes img into the VM's memory and resets its
// registers: sp = 0, ip = stackEnd, halted = false.
func (m *VM) LoadImage(img *compiler.Image) {
	m.mem = make([]byte, img.ConstEnd)
	for i, instr := range img.Instructions {
		addr := img.StackEnd + int32(i)*compiler.InstructionSize
		instr.Encode(m.mem[addr : addr+compiler.InstructionSize])
	}
	for i, v := range img.Constants {
		addr := img.InstrEnd + int32(i)*4
		binary.LittleEndian.PutUint32(m.mem[addr:addr+4], uint32(v))
	}
	m.stackEnd = img.StackEnd
	m.instrEnd = img.InstrEnd
	m.sp = 0
	m.ip = img.StackEnd
	m.halted = false
}

// Run executes until Hlt or a runtime error.
func (m *VM) Run() error {
	for !m.halted {
		instr := compiler.DecodeInstruction(m.mem[m.ip : m.ip+compiler.InstructionSize])
		ip := m.ip
		m.ip += compiler.InstructionSize
		if err := m.dispatch(instr, ip); err != nil {
			return err
		}
	}
	return nil
}

func (m *VM) dispatch(instr compiler.Instruction, ip int32) error {
	switch instr.Op {
	case compiler.OpAlloca:
		m.sp += instr.Operand
	case compiler.OpIPushVal:
		m.push(instr.Operand)
	case compiler.OpIPushAddr:
		m.push(m.readAt(instr.Operand))
	case compiler.OpIPopVal:
		m.pop()
	case compiler.OpIPopAddr:
		m.writeAt(instr.Operand, m.pop())
	case compiler.OpIAdd:
		b, a := m.pop(), m.pop()
		m.push(a + b)
	case compiler.OpISub:
		b, a := m.pop(), m.pop()
		m.push(a - b)
	case compiler.OpIMul:
		b, a := m.pop(), m.pop()
		m.push(a * b)
	case compiler.OpIDiv:
		b, a := m.pop(), m.pop()
		if b == 0 {
			return m.halt("division by zero", ip)
		}
		m.push(a / b)
	case compiler.OpIMod:
		b, a := m.pop(), m.pop()
		if b == 0 {
			return m.halt("modulo by zero", ip)
		}
		m.push(a % b)
	case compiler.OpICmpL:
		b, a := m.pop(), m.pop()
		m.pushBool(a < b)
	case compiler.OpICmpG:
		b, a := m.pop(), m.pop()
		m.pushBool(a > b)
	case compiler.OpICmpLE:
		b, a := m.pop(), m.pop()
		m.pushBool(a <= b)
	case compiler.OpICmpGE:
		b, a := m.pop(), m.pop()
		m.pushBool(a >= b)
	case compiler.OpICmpEQ:
		b, a := m.pop(), m.pop()
		m.pushBool(a == b)
	case compiler.OpICmpNE:
		b, a := m.pop(), m.pop()
		m.pushBool(a != b)
	case compiler.OpIAnd:
		b, a := m.pop(), m.pop()
		m.pushBool(a != 0 && b != 0)
	case compiler.OpIOr:
		b, a := m.pop(), m.pop()
		m.pushBool(a != 0 || b != 0)
	case compiler.OpINot:
		a := m.pop()
		m.pushBool(a == 0)
	case compiler.OpIIn:
		if !m.in.Scan() {
			return m.halt("read from exhausted input stream", ip)
		}
		v, err := strconv.ParseInt(m.in.Text(), 10, 32)
		if err != nil {
			return m.halt(fmt.Sprintf("malformed integer input %q", m.in.Text()), ip)
		}
		m.push(int32(v))
	case compiler.OpIOut:
		fmt.Fprintf(m.out, "%d\n", m.pop())
	case compiler.OpJmp:
		m.ip = instr.Operand
	case compiler.OpJmpTrue:
		if m.pop() != 0 {
			m.ip = instr.Operand
		}
	case compiler.OpJmpFalse:
		if m.pop() == 0 {
			m.ip = instr.Operand
		}
	case compiler.OpHlt:
		m.halted = true
	default:
		return m.halt(fmt.Sprintf("unrecognized opcode %d", byte(instr.Op)), ip)
	}
	return nil
}

func (m *VM) halt(message string, ip int32) error {
	m.halted = true
	return RuntimeError{Message: message, IP: ip}
}

func (m *VM) push(v int32) {
	binary.LittleEndian.PutUint32(m.mem[m.sp:m.sp+4], uint32(v))
	m.sp += 4
}

func (m *VM) pushBool(b bool) {
	if b {
		m.push(1)
	} else {
		m.push(0)
	}
}

func (m *VM) pop() int32 {
	m.sp -= 4
	return int32(binary.LittleEndian.Uint32(m.mem[m.sp : m.sp+4]))
}

func (m *VM) readAt(addr int32) int32 {
	return int32(binary.LittleEndian.Uint32(m.mem[addr : addr+4]))
}

func (m *VM) writeAt(addr int32, v int32) {
	binary.LittleEndian.PutUint32(m.mem[addr:addr+4], uint32(v))
}
