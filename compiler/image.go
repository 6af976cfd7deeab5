package compiler

import "encoding/binary"

// InstructionSize is the fixed on-the-wire width of every instruction:
// one opcode byte plus a 4-byte little-endian operand.
const InstructionSize = 5

// Default region boundaries, per the memory layout the generator and the
// VM both mirror: stack | program | constants.
const (
	DefaultStackEnd = 49152
	instrRegionSize = 15360
	constRegionSize = 1024
)

// Instruction is one decoded 5-byte bytecode instruction.
type Instruction struct {
	Op      OpCode
	Operand int32
}

// Encode writes the instruction's 5-byte wire form into buf, which must
// be at least InstructionSize long.
func (in Instruction) Encode(buf []byte) {
	buf[0] = byte(in.Op)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(in.Operand))
}

// DecodeInstruction reads one 5-byte instruction from buf.
func DecodeInstruction(buf []byte) Instruction {
	return Instruction{
		Op:      OpCode(buf[0]),
		Operand: int32(binary.LittleEndian.Uint32(buf[1:5])),
	}
}

// Image is the code generator's output: an instruction list and a
// constant pool addressed within three fixed regions of a flat memory
// space the VM will later materialize.
type Image struct {
	StackEnd int32
	InstrEnd int32
	ConstEnd int32

	instrCur int32
	constCur int32

	Instructions []Instruction
	Constants    []int32
}

// NewImage returns an empty Image with the default region boundaries.
func NewImage() *Image {
	stackEnd := int32(DefaultStackEnd)
	instrEnd := stackEnd + instrRegionSize
	constEnd := instrEnd + constRegionSize
	return &Image{
		StackEnd: stackEnd,
		InstrEnd: instrEnd,
		ConstEnd: constEnd,
		instrCur: stackEnd,
		constCur: instrEnd,
	}
}

// Emit appends an instruction and returns the address it was placed at.
func (img *Image) Emit(op OpCode, operand int32) int32 {
	if img.instrCur+InstructionSize > img.InstrEnd {
		panic(DeveloperError{"program region overflow"})
	}
	addr := img.instrCur
	img.Instructions = append(img.Instructions, Instruction{Op: op, Operand: operand})
	img.instrCur += InstructionSize
	return addr
}

// CurrentAddr returns the address the next Emit call will use. It is the
// address a backpatched jump should target to fall through to "here".
func (img *Image) CurrentAddr() int32 {
	return img.instrCur
}

// Patch overwrites the operand of the instruction previously emitted at
// addr. addr must be an address this Image itself returned from Emit.
func (img *Image) Patch(addr int32, operand int32) {
	idx := (addr - img.StackEnd) / InstructionSize
	if idx < 0 || int(idx) >= len(img.Instructions) {
		panic(DeveloperError{"patch target out of range"})
	}
	img.Instructions[idx].Operand = operand
}

// AddConstant appends a new interned constant and returns its address.
// Callers go through ConstantPool rather than calling this directly, so
// that identical values share an address.
func (img *Image) AddConstant(v int32) int32 {
	if img.constCur+4 > img.ConstEnd {
		panic(DeveloperError{"constant region overflow"})
	}
	addr := img.constCur
	img.Constants = append(img.Constants, v)
	img.constCur += 4
	return addr
}
