package ipc

import (
	"math"
	"testing"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	s := NewSerializer()
	s.WriteU8(0xAB)
	s.WriteU16(0x1234)
	s.WriteU32(0xDEADBEEF)
	s.WriteU64(0x0123456789ABCDEF)
	s.WriteI32(-1)
	s.WriteI64(math.MinInt64)
	s.WriteBool(true)
	s.WriteBool(false)
	s.WriteString("hello\x00world")
	s.WriteBytes([]byte{1, 2, 3, 0, 255})

	d := NewDeserializer(s.Data())
	if v, err := d.ReadU8(); err != nil || v != 0xAB {
		t.Fatalf("u8 = %v, %v", v, err)
	}
	if v, err := d.ReadU16(); err != nil || v != 0x1234 {
		t.Fatalf("u16 = %v, %v", v, err)
	}
	if v, err := d.ReadU32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("u32 = %v, %v", v, err)
	}
	if v, err := d.ReadU64(); err != nil || v != 0x0123456789ABCDEF {
		t.Fatalf("u64 = %v, %v", v, err)
	}
	if v, err := d.ReadI32(); err != nil || v != -1 {
		t.Fatalf("i32 = %v, %v", v, err)
	}
	if v, err := d.ReadI64(); err != nil || v != math.MinInt64 {
		t.Fatalf("i64 = %v, %v", v, err)
	}
	if v, err := d.ReadBool(); err != nil || v != true {
		t.Fatalf("bool = %v, %v", v, err)
	}
	if v, err := d.ReadBool(); err != nil || v != false {
		t.Fatalf("bool = %v, %v", v, err)
	}
	if v, err := d.ReadString(); err != nil || v != "hello\x00world" {
		t.Fatalf("string = %q, %v", v, err)
	}
	if v, err := d.ReadBytes(); err != nil || string(v) != string([]byte{1, 2, 3, 0, 255}) {
		t.Fatalf("bytes = %v, %v", v, err)
	}
	if d.HasRemaining() {
		t.Error("expected no remaining bytes")
	}
}

func TestF64SpecialValuesPreserveBitPattern(t *testing.T) {
	values := []float64{
		math.NaN(), math.Inf(1), math.Inf(-1),
		0, math.Copysign(0, -1),
		math.SmallestNonzeroFloat64, math.MaxFloat64, -math.MaxFloat64,
	}
	s := NewSerializer()
	for _, v := range values {
		s.WriteF64(v)
	}
	d := NewDeserializer(s.Data())
	for _, want := range values {
		got, err := d.ReadF64()
		if err != nil {
			t.Fatalf("ReadF64: %v", err)
		}
		if math.Float64bits(got) != math.Float64bits(want) {
			t.Errorf("f64 round-trip: got bits %x, want %x (got=%v want=%v)",
				math.Float64bits(got), math.Float64bits(want), got, want)
		}
	}
}

func TestUnderflowFailsCleanly(t *testing.T) {
	d := NewDeserializer([]byte{0x00, 0x01})
	if _, err := d.ReadU32(); err != ErrUnderflow {
		t.Fatalf("expected ErrUnderflow, got %v", err)
	}
}

func TestUnderflowOnTruncatedString(t *testing.T) {
	s := NewSerializer()
	s.WriteU32(100) // claims 100 bytes but none follow
	d := NewDeserializer(s.Data())
	if _, err := d.ReadString(); err != ErrUnderflow {
		t.Fatalf("expected ErrUnderflow, got %v", err)
	}
}

// Scenario 7 from the testable-properties list: writing u32(0xDEADBEEF),
// string("roundtrip"), bool(true), then deserializing reads the same
// values and has_remaining() == false.
func TestSerializerFrameScenario(t *testing.T) {
	s := NewSerializer()
	s.WriteU32(0xDEADBEEF)
	s.WriteString("roundtrip")
	s.WriteBool(true)

	d := NewDeserializer(s.Data())
	u, err := d.ReadU32()
	if err != nil || u != 0xDEADBEEF {
		t.Fatalf("u32 = %v, %v", u, err)
	}
	str, err := d.ReadString()
	if err != nil || str != "roundtrip" {
		t.Fatalf("string = %q, %v", str, err)
	}
	b, err := d.ReadBool()
	if err != nil || !b {
		t.Fatalf("bool = %v, %v", b, err)
	}
	if d.HasRemaining() {
		t.Error("expected has_remaining() == false")
	}
}
