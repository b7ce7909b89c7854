//go:build 386 || amd64 || amd64p32 || alpha || arm || arm64 || loong64 || mipsle || mips64le || mips64p32le || nios2 || ppc64le || riscv || riscv64 || sh || wasm

package pixfmt

// NativeLayout is the in-memory byte order of Pixel on this host.
const NativeLayout = LayoutBGRA8

// Pixel is the canonical 32-bit pixel. Construct it with keyed fields or the
// RGB/RGBA/BGRA helpers; field order follows NativeLayout.
type Pixel struct {
	_ [0]uint32 // word alignment for AsWords

	B uint8
	G uint8
	R uint8
	A uint8
}
