package toml

import (
	"strings"
	"testing"
)

type chunkDoc struct {
	Version int       `toml:"version"`
	Label   string    `toml:"label"`
	Tiles   []tileDoc `toml:"tile"`
}

type tileDoc struct {
	Index   []int   `toml:"index"`
	Texture uint32  `toml:"texture_index"`
	Cost    uint32  `toml:"cost"`
	Weight  float32 `toml:"weight"`
	Solid   bool    `toml:"solid"`
}

func TestUnmarshalDocument(t *testing.T) {
	input := `
# chunk record
version = 2
label = "overworld \"north\""

[[tile]]
index = [0, 0]
texture_index = 7
cost = 1
weight = 0.5
solid = true

[[tile]]
index = [-3, 12]
texture_index = 0
cost = 100
`
	var doc chunkDoc
	if err := Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}

	if doc.Version != 2 {
		t.Errorf("Expected version 2, got %d", doc.Version)
	}
	if doc.Label != `overworld "north"` {
		t.Errorf("Expected escaped label, got %q", doc.Label)
	}
	if len(doc.Tiles) != 2 {
		t.Fatalf("Expected 2 tiles, got %d", len(doc.Tiles))
	}
	if doc.Tiles[0].Texture != 7 || !doc.Tiles[0].Solid || doc.Tiles[0].Weight != 0.5 {
		t.Errorf("Expected first tile fields to decode, got %+v", doc.Tiles[0])
	}
	if doc.Tiles[1].Index[0] != -3 || doc.Tiles[1].Index[1] != 12 {
		t.Errorf("Expected index [-3, 12], got %v", doc.Tiles[1].Index)
	}
	if doc.Tiles[1].Cost != 100 {
		t.Errorf("Expected cost 100, got %d", doc.Tiles[1].Cost)
	}
}

func TestNestedArrays(t *testing.T) {
	input := `
[[pattern]]
allowed = [[0, 1], [1], [], [0]]
`
	var doc struct {
		Pattern []struct {
			Allowed [][]int `toml:"allowed"`
		} `toml:"pattern"`
	}
	if err := Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}
	if len(doc.Pattern) != 1 || len(doc.Pattern[0].Allowed) != 4 {
		t.Fatalf("Expected 4 direction lists, got %+v", doc.Pattern)
	}
	if len(doc.Pattern[0].Allowed[2]) != 0 {
		t.Errorf("Expected empty third list, got %v", doc.Pattern[0].Allowed[2])
	}
	if doc.Pattern[0].Allowed[0][1] != 1 {
		t.Errorf("Expected allowed[0][1] = 1, got %d", doc.Pattern[0].Allowed[0][1])
	}
}

func TestMultilineArray(t *testing.T) {
	input := `
weights = [
	3,
	1,
	1,
]
`
	var doc struct {
		Weights []int `toml:"weights"`
	}
	if err := Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}
	if len(doc.Weights) != 3 || doc.Weights[0] != 3 {
		t.Errorf("Expected weights [3 1 1], got %v", doc.Weights)
	}
}

func TestInlineTable(t *testing.T) {
	input := `tile = { texture_index = 4, solid = false }`
	var doc struct {
		Tile tileDoc `toml:"tile"`
	}
	if err := Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}
	if doc.Tile.Texture != 4 || doc.Tile.Solid {
		t.Errorf("Expected inline table fields, got %+v", doc.Tile)
	}
}

func TestNestedTables(t *testing.T) {
	input := `
[server]
port = 8080

[server.limits]
max = 64
`
	var doc struct {
		Server struct {
			Port   int `toml:"port"`
			Limits struct {
				Max int `toml:"max"`
			} `toml:"limits"`
		} `toml:"server"`
	}
	if err := Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}
	if doc.Server.Port != 8080 || doc.Server.Limits.Max != 64 {
		t.Errorf("Expected nested tables to decode, got %+v", doc)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing equals":    "key 42",
		"duplicate key":     "a = 1\na = 2",
		"bad escape":        `s = "\q"`,
		"newline in string": "s = \"a\nb\"",
		"negative to uint":  "cost = -5",
		"table conflict":    "a = 1\n[a]\nb = 2",
	}
	for name, input := range cases {
		var doc tileDoc
		if err := Unmarshal([]byte(input), &doc); err == nil {
			t.Errorf("Expected %s to fail", name)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	src := chunkDoc{
		Version: 3,
		Label:   "cave\nlevel",
		Tiles: []tileDoc{
			{Index: []int{1, -2}, Texture: 9, Cost: 4, Weight: 1.5, Solid: true},
			{Index: []int{0, 0}, Texture: 2, Cost: 1},
		},
	}

	out, err := Marshal(src)
	if err != nil {
		t.Fatalf("Expected marshal to succeed, got %v", err)
	}

	var back chunkDoc
	if err := Unmarshal(out, &back); err != nil {
		t.Fatalf("Expected output to reparse, got %v\n%s", err, out)
	}
	if back.Version != src.Version || back.Label != src.Label {
		t.Errorf("Expected scalars to round trip, got %+v", back)
	}
	if len(back.Tiles) != 2 || back.Tiles[0].Texture != 9 || back.Tiles[1].Cost != 1 {
		t.Errorf("Expected tiles to round trip, got %+v", back.Tiles)
	}
	if back.Tiles[0].Index[1] != -2 {
		t.Errorf("Expected index to round trip, got %v", back.Tiles[0].Index)
	}
}

func TestMarshalQuotesAwkwardKeys(t *testing.T) {
	out, err := Marshal(map[string]any{"-12": "chunk", "plain": int64(1)})
	if err != nil {
		t.Fatalf("Expected marshal to succeed, got %v", err)
	}
	if !strings.Contains(string(out), `"-12" = "chunk"`) {
		t.Errorf("Expected numeric key to be quoted, got %s", out)
	}

	var back map[string]any
	if err := Unmarshal(out, &back); err != nil {
		t.Fatalf("Expected output to reparse, got %v\n%s", err, out)
	}
	if back["-12"] != "chunk" {
		t.Errorf("Expected quoted key to round trip, got %v", back)
	}
}

func TestMarshalOmitempty(t *testing.T) {
	type cfg struct {
		Name string `toml:"name,omitempty"`
		Seed int64  `toml:"seed,omitempty"`
		Keep int    `toml:"keep"`
	}
	out, err := Marshal(cfg{})
	if err != nil {
		t.Fatalf("Expected marshal to succeed, got %v", err)
	}
	s := string(out)
	if strings.Contains(s, "name") || strings.Contains(s, "seed") {
		t.Errorf("Expected empty tagged fields to be omitted, got %s", s)
	}
	if !strings.Contains(s, "keep = 0") {
		t.Errorf("Expected untagged zero to be kept, got %s", s)
	}
}
