package compiler

import (
	"bufio"
	"fmt"
	"io"
)

// Disassemble writes img's program and constant regions to w in the
// format mandated for bytecode dumps: address<TAB>opcode<space>operand,
// one line per instruction, followed by the constant pool.
func Disassemble(img *Image, w io.Writer) error {
	bw := bufio.NewWriter(w)

	for i, instr := range img.Instructions {
		addr := img.StackEnd + int32(i)*InstructionSize
		if _, err := fmt.Fprintf(bw, "%d\t%s %d\n", addr, instr.Op, instr.Operand); err != nil {
			return err
		}
	}
	for i, v := range img.Constants {
		addr := img.InstrEnd + int32(i)*4
		if _, err := fmt.Fprintf(bw, "%d\tConstInt %d\n", addr, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}
