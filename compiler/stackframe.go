package compiler

import "paracl/ast"

// MemBlock is a compile-time record of one scope's stack region: a base
// address, a cursor, and a name-to-address map for the variables
// declared directly in that scope.
type MemBlock struct {
	begAddr int32
	curAddr int32
	addr    map[string]int32
}

func newMemBlock(begAddr int32) *MemBlock {
	return &MemBlock{begAddr: begAddr, curAddr: begAddr, addr: make(map[string]int32)}
}

// pushVar reserves one 4-byte-aligned slot for name and returns its
// address.
func (b *MemBlock) pushVar(name string) int32 {
	addr := b.curAddr
	b.addr[name] = addr
	b.curAddr += 4
	return addr
}

func (b *MemBlock) lookupVar(name string) (int32, bool) {
	addr, ok := b.addr[name]
	return addr, ok
}

// size is the total bytes this block reserves.
func (b *MemBlock) size() int32 {
	return b.curAddr - b.begAddr
}

// StackFrame is the compile-time mirror of the VM's runtime stack: a
// stack of MemBlocks that the generator pushes on scope entry and pops
// on scope exit, kept in lock-step with the Alloca instructions it
// emits.
type StackFrame struct {
	blocks []*MemBlock
}

func (f *StackFrame) curAddr() int32 {
	if len(f.blocks) == 0 {
		return 0
	}
	return f.blocks[len(f.blocks)-1].curAddr
}

// BeginScope pushes a new block starting at the frame's current address
// and allocates one slot per name scope declares, in declaration order.
// It returns the block's total size in bytes.
func (f *StackFrame) BeginScope(scope *ast.Scope) int32 {
	block := newMemBlock(f.curAddr())
	for _, name := range scope.Names() {
		block.pushVar(name)
	}
	f.blocks = append(f.blocks, block)
	return block.size()
}

// EndScope pops the innermost block and returns its size in bytes.
func (f *StackFrame) EndScope() int32 {
	block := f.blocks[len(f.blocks)-1]
	f.blocks = f.blocks[:len(f.blocks)-1]
	return block.size()
}

// LookupVar searches blocks from innermost to outermost for name.
func (f *StackFrame) LookupVar(name string) (int32, bool) {
	for i := len(f.blocks) - 1; i >= 0; i-- {
		if addr, ok := f.blocks[i].lookupVar(name); ok {
			return addr, true
		}
	}
	return 0, false
}
