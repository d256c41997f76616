package sjis

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{
		"abc",
		"こんにちは",
		"テスト123",
	}

	for _, s := range cases {
		encoded, err := Encode(s)
		if err != nil {
			t.Fatalf("Encode(%q): %v", s, err)
		}
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if decoded != s {
			t.Fatalf("round trip mismatch: got %q want %q", decoded, s)
		}
	}
}

func TestIsLeadByte(t *testing.T) {
	cases := []struct {
		b    byte
		want bool
	}{
		{0x00, false},
		{0x41, false}, // 'A'
		{0x80, false},
		{0x81, true},
		{0x9F, true},
		{0xA0, false},
		{0xDF, false},
		{0xE0, true},
		{0xFC, true},
		{0xFD, false},
	}

	for _, c := range cases {
		if got := IsLeadByte(c.b); got != c.want {
			t.Fatalf("IsLeadByte(%#x) = %v, want %v", c.b, got, c.want)
		}
	}
}
