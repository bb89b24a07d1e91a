package board

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNeighborsTable(t *testing.T) {
	for i := 0; i < Cells; i++ {
		want := uint32(1) << uint(i)
		if i >= Size {
			want |= 1 << uint(i-Size)
		}
		if i+Size < Cells {
			want |= 1 << uint(i+Size)
		}
		if i%Size != 0 {
			want |= 1 << uint(i-1)
		}
		if i%Size != Size-1 {
			want |= 1 << uint(i+1)
		}
		if got := Neighbors(i); got != want {
			t.Errorf("Neighbors(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestDefendedMap(t *testing.T) {
	cases := []struct{ in, want uint32 }{
		{0, 0},
		{33554431, 33554431},
		{2734099, 0},
		{10801194, 0},
		{11293290, 0},
		{14700913, 0},
		{19598526, 4},
		{20847326, 20},
		{2150173, 536},
		{9358398, 1024},
		{19627578, 16400},
		{22804072, 49152},
		{23032643, 679936},
		{24561557, 1049088},
		{31816366, 8388612},
		{32885908, 11567104},
		{25967372, 16777216},
		{30279693, 25165824},
	}
	for _, c := range cases {
		if got := DefendedMap(c.in); got != c.want {
			t.Errorf("DefendedMap(%d) = %d, want %d", c.in, got, c.want)
		}
		for i := 0; i < Cells; i++ {
			if IsDefended(c.in, i) != (c.want&Bit(i) != 0) {
				t.Errorf("IsDefended(%d, %d) disagrees with DefendedMap", c.in, i)
			}
		}
	}
}

func TestCentroid(t *testing.T) {
	cases := []struct {
		name string
		m    uint32
		want Vector
	}{
		{"empty", 0, Center},
		{"opposite corners", Bit(0) | Bit(24), Vector{2, 2}},
		{"top corners", Bit(0) | Bit(4), Vector{2, 0}},
		{"single", Bit(7), Vector{2, 1}},
		{"full", Full, Vector{2, 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Centroid(c.m); got != c.want {
				t.Fatalf("Centroid = %+v, want %+v", got, c.want)
			}
		})
	}
	if d := Distance(Vector{0, 0}, Vector{3, 4}); d != 5 {
		t.Fatalf("Distance = %v, want 5", d)
	}
}

func TestPackKeyRoundTrip(t *testing.T) {
	cases := [][2]uint32{
		{0, 0},
		{33554431, 0},
		{0, 33554431},
		{32440319, 1114112},
		{33553903, 16},
	}
	for _, c := range cases {
		b, r := UnpackKey(PackKey(c[0], c[1]))
		if b != c[0] || r != c[1] {
			t.Errorf("UnpackKey(PackKey(%d, %d)) = (%d, %d)", c[0], c[1], b, r)
		}
	}
}

func TestDecode(t *testing.T) {
	p := Decode("B5B5BW3RR5R5")
	if want := uint32(1<<11 - 1); p.Blue != want {
		t.Fatalf("blue = %b, want %b", p.Blue, want)
	}
	if want := Full &^ (1<<14 - 1); p.Red != want {
		t.Fatalf("red = %b, want %b", p.Red, want)
	}
	if p.Zeros() != Bit(11)|Bit(12)|Bit(13) {
		t.Fatalf("zeros = %b", p.Zeros())
	}
	if p.BlueDef != DefendedMap(p.Blue) || p.RedDef != DefendedMap(p.Red) {
		t.Fatalf("defended maps not derived")
	}
}

func TestDecodeDegradesGracefully(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		blue  int
		red   int
		zeros int
	}{
		{"empty", "", 0, 0, 25},
		{"too long", strings.Repeat("B", 40), 25, 0, 0},
		{"run past end", "R9R9R9R9", 0, 25, 0},
		{"leading digit", "5B", 1, 0, 24},
		{"garbage", "x?zB", 1, 0, 24},
		{"zero and one are no-ops", "B0B1", 2, 0, 23},
		{"lower case", "b3r3", 3, 3, 19},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := Decode(c.in)
			if p.Blue&p.Red != 0 {
				t.Fatalf("blue and red overlap")
			}
			if BitCount(p.Blue) != c.blue || BitCount(p.Red) != c.red || BitCount(p.Zeros()) != c.zeros {
				t.Fatalf("counts = %d/%d/%d, want %d/%d/%d",
					BitCount(p.Blue), BitCount(p.Red), BitCount(p.Zeros()), c.blue, c.red, c.zeros)
			}
		})
	}
}

func TestReduce(t *testing.T) {
	cases := []struct{ in, want string }{
		{"rrrrrrrrrrrrrrrrrrrrrrrrr", "r9r9r7"},
		{"rrrrrbbbbbrrrrrbbbbbrrrrr", "r5b5r5b5r5"},
		{"rbbrrrbbbbrrrrrbbbbbbrrrr", "rbbr3b4r5b6r4"},
	}
	for _, c := range cases {
		if got := Reduce(c.in); got != c.want {
			t.Errorf("Reduce(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReduceRoundTrip(t *testing.T) {
	cases := []string{
		"bwrbwrbbwbwbwrbwrbwrbwrbw",
		"bbrbrbrbwrbwbrbrbrbbrwbrb",
		"bbbwwbbbbbbwbwwwwwbbbwbrw",
		"rrrrrrrbrrrrrrwrwrrrrrrrr",
		"bwwwwwwwwwwwwwwwwwwwrrrrr",
		"bbbbbbbbbbbwwwrrrrrrrrrrr",
	}
	for _, colors := range cases {
		p := Decode(Reduce(colors))
		if got := strings.ToLower(Colors(p.Blue, p.Red)); got != colors {
			t.Errorf("round trip %q = %q", colors, got)
		}
	}
}

func TestCapture(t *testing.T) {
	// red owns 0, 1 and 5, which defends cell 0
	p := NewPosition(0, Bit(0)|Bit(1)|Bit(5))
	got := p.Capture(Bit(0)|Bit(1)|Bit(2), Blue)
	if got.Blue != Bit(1)|Bit(2) || got.Red != Bit(0)|Bit(5) {
		t.Fatalf("capture = blue %b red %b", got.Blue, got.Red)
	}
	if got.Blue&got.Red != 0 {
		t.Fatalf("blue and red overlap")
	}
}

func TestSide(t *testing.T) {
	if Blue.Opposite() != Red || Red.Opposite() != Blue {
		t.Fatalf("Opposite broken")
	}
	if Blue.Sign() != 1 || Red.Sign() != -1 {
		t.Fatalf("Sign broken")
	}
	for in, want := range map[string]Side{"blue": Blue, "R": Red, "-1": Red, "": Blue} {
		got, err := ParseSide(in)
		if err != nil || got != want {
			t.Errorf("ParseSide(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSide("green"); err == nil {
		t.Fatalf("expected error for unknown side")
	}
}

func TestSideJSON(t *testing.T) {
	b, err := json.Marshal(struct{ Move Side }{Red})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"Move":"red"}` {
		t.Fatalf("Marshal = %s", b)
	}
	var v struct{ Move Side }
	if err := json.Unmarshal([]byte(`{"Move":"b"}`), &v); err != nil || v.Move != Blue {
		t.Fatalf("Unmarshal = %v, %v", v.Move, err)
	}
	if err := json.Unmarshal([]byte(`{"Move":"green"}`), &v); err == nil {
		t.Fatalf("expected error for unknown side")
	}
}
