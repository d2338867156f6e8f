package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	History of decided bits and the symbols they came from.
 *
 * Description:	Fixed ring of one frame of symbols.  Besides the unique
 *		word check it keeps a running sum of squared error
 *		against the ideal +-1 point so EVM over the whole window
 *		costs nothing per symbol.
 *
 *		Offsets passed to GetSymbol are relative to the oldest
 *		entry, i.e. the start of the frame when a unique word has
 *		just been found.
 *
 *---------------------------------------------------------------*/

import (
	"math"
)

type SymbolBuffer struct {
	bits    []byte
	symbols []complex128
	errs    []float64

	head     int // next write position, also the oldest entry once full
	count    int
	totalErr float64
}

func NewSymbolBuffer(size int) *SymbolBuffer {
	return &SymbolBuffer{
		bits:    make([]byte, size),
		symbols: make([]complex128, size),
		errs:    make([]float64, size),
	}
}

func (b *SymbolBuffer) Size() int {
	return len(b.bits)
}

func (b *SymbolBuffer) Push(bit byte, symbol complex128) {
	var ref = -1.0
	if bit != 0 {
		ref = 1.0
	}
	var e = magSq(symbol - complex(ref, 0))

	b.totalErr -= b.errs[b.head]
	b.totalErr += e
	if b.totalErr < 0 {
		b.totalErr = 0
	}

	b.bits[b.head] = bit
	b.symbols[b.head] = symbol
	b.errs[b.head] = e

	b.head++
	if b.head == len(b.bits) {
		b.head = 0
	}

	if b.count < len(b.bits) {
		b.count++
	}
}

func (b *SymbolBuffer) index(offset int) int {
	var n = len(b.bits)
	var i = (b.head + offset) % n
	if i < 0 {
		i += n
	}

	return i
}

// column reads UniqueWordRows bits down one column of the frame,
// first row in the most significant bit.
func (b *SymbolBuffer) column(col int) uint64 {
	var word uint64

	for row := 0; row < UniqueWordRows; row++ {
		word |= uint64(b.bits[b.index(row*UniqueWordStride+col)]&1) << (UniqueWordRows - 1 - row)
	}

	return word
}

/*------------------------------------------------------------------
 *
 * Name:	CheckUW
 *
 * Purpose:	Is the buffer exactly one frame aligned on the unique word?
 *
 * Description:	Both of the first two columns must match, and match each
 *		other.  A one symbol slip would match one column but not
 *		both.  The complement is accepted since the carrier loop
 *		may be locked 180 degrees out.
 *
 *------------------------------------------------------------------*/

func (b *SymbolBuffer) CheckUW() bool {
	var bits1 = b.column(0)
	var bits2 = b.column(1)

	return (bits1 == UniqueWord || bits1 == ^UniqueWord) && bits1 == bits2
}

// Inverted reports the polarity of the last aligned frame.  Only
// meaningful right after CheckUW returned true.
func (b *SymbolBuffer) Inverted() bool {
	return b.column(0) == ^UniqueWord
}

func (b *SymbolBuffer) GetSymbol(offset int) complex128 {
	return b.symbols[b.index(offset)]
}

func (b *SymbolBuffer) GetBit(offset int) byte {
	return b.bits[b.index(offset)]
}

// EVM is the RMS error vector over the symbols held.
func (b *SymbolBuffer) EVM() float64 {
	if b.count == 0 {
		return 0
	}

	return math.Sqrt(b.totalErr / float64(b.count))
}

func (b *SymbolBuffer) Reset() {
	clear(b.bits)
	clear(b.symbols)
	clear(b.errs)
	b.head = 0
	b.count = 0
	b.totalErr = 0
}
