package compiler

// ConstantPool interns integer literals into an Image's constant region:
// equal values always share the same address.
type ConstantPool struct {
	img  *Image
	addr map[int32]int32
}

// NewConstantPool returns a pool that interns into img.
func NewConstantPool(img *Image) *ConstantPool {
	return &ConstantPool{img: img, addr: make(map[int32]int32)}
}

// PushConst returns the address of v, adding it to the image's constant
// region on first use and reusing that address on every later call with
// the same value.
func (p *ConstantPool) PushConst(v int32) int32 {
	if addr, ok := p.addr[v]; ok {
		return addr
	}
	addr := p.img.AddConstant(v)
	p.addr[v] = addr
	return addr
}
