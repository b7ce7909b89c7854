package pixfmt

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/cpu"
)

func TestPixelSize(t *testing.T) {
	if got := unsafe.Sizeof(Pixel{}); got != 4 {
		t.Errorf("sizeof(Pixel) = %d, want 4", got)
	}
	if got := unsafe.Alignof(Pixel{}); got != 4 {
		t.Errorf("alignof(Pixel) = %d, want 4", got)
	}
}

func TestNativeLayout(t *testing.T) {
	b := AsBytes([]Pixel{RGBA(1, 2, 3, 4)})
	var want []byte
	switch NativeLayout {
	case LayoutBGRA8:
		want = []byte{3, 2, 1, 4}
	case LayoutRGBA8:
		want = []byte{1, 2, 3, 4}
	}
	if string(b) != string(want) {
		t.Errorf("AsBytes() = %v, want %v for %v", b, want, NativeLayout)
	}
	out := make([]Pixel, 1)
	if err := Convert(Dest{Pixels: out, Width: 1, Height: 1},
		Source{Data: b, Width: 1, Height: 1, Format: NativeLayout.Format()}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if out[0] != RGBA(1, 2, 3, 4) {
		t.Errorf("Convert(native bytes) = %+v, want %+v", out[0], RGBA(1, 2, 3, 4))
	}
}

// The build tags choosing NativeLayout must agree with the running CPU.
func TestNativeLayoutMatchesCPU(t *testing.T) {
	want := LayoutBGRA8
	if cpu.IsBigEndian {
		want = LayoutRGBA8
	}
	if NativeLayout != want {
		t.Errorf("NativeLayout = %v, want %v (cpu.IsBigEndian = %v)", NativeLayout, want, cpu.IsBigEndian)
	}
	if got := WordShifts(); got != want.Shifts() {
		t.Errorf("WordShifts() = %+v, want %+v", got, want.Shifts())
	}
}

func TestWordShifts(t *testing.T) {
	p := RGBA(0x11, 0x22, 0x33, 0x44)
	s := WordShifts()
	if got, want := p.Uint32(), s.Word(p); got != want {
		t.Errorf("Uint32() = %#x, Shifts.Word() = %#x", got, want)
	}
	if got := FromUint32(p.Uint32()); got != p {
		t.Errorf("FromUint32(Uint32()) = %+v, want %+v", got, p)
	}
	words := AsWords([]Pixel{p})
	if words[0] != p.Uint32() {
		t.Errorf("AsWords()[0] = %#x, want %#x", words[0], p.Uint32())
	}
}

func TestConstructors(t *testing.T) {
	if got, want := BGRA(3, 2, 1, 4), RGBA(1, 2, 3, 4); got != want {
		t.Errorf("BGRA() = %+v, want %+v", got, want)
	}
	if got := RGB(1, 2, 3).A; got != 0xff {
		t.Errorf("RGB().A = %d, want 255", got)
	}
	if AsBytes(nil) != nil || AsWords(nil) != nil {
		t.Error("empty slices should map to nil")
	}
}
