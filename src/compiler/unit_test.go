package compiler

import "testing"

func TestOrderMainLastMovesMainToEnd(t *testing.T) {
	in := []Source{
		{Name: "main.gaia"},
		{Name: "util.gaia"},
		{Name: "types.gaia"},
	}
	out := OrderMainLast(in)
	if len(out) != 3 {
		t.Fatalf("got %d sources, want 3", len(out))
	}
	if out[2].Name != "main.gaia" {
		t.Fatalf("last source is %q, want main.gaia", out[2].Name)
	}
	if out[0].Name != "util.gaia" || out[1].Name != "types.gaia" {
		t.Fatalf("non-main sources reordered: got %q, %q", out[0].Name, out[1].Name)
	}
}

func TestOrderMainLastMatchesByBaseName(t *testing.T) {
	in := []Source{
		{Name: "/home/user/proj/main.gaia"},
		{Name: "/home/user/proj/helpers.gaia"},
	}
	out := OrderMainLast(in)
	if out[1].Name != "/home/user/proj/main.gaia" {
		t.Fatalf("last source is %q, want the main.gaia path", out[1].Name)
	}
}

func TestOrderMainLastIsCaseInsensitive(t *testing.T) {
	in := []Source{
		{Name: "Main.gaia"},
		{Name: "util.gaia"},
	}
	out := OrderMainLast(in)
	if out[1].Name != "Main.gaia" {
		t.Fatalf("last source is %q, want Main.gaia", out[1].Name)
	}

	in = []Source{
		{Name: "MAIN.GAIA"},
		{Name: "util.gaia"},
	}
	out = OrderMainLast(in)
	if out[1].Name != "MAIN.GAIA" {
		t.Fatalf("last source is %q, want MAIN.GAIA", out[1].Name)
	}
}

func TestOrderMainLastNoMainIsUnchanged(t *testing.T) {
	in := []Source{{Name: "a.gaia"}, {Name: "b.gaia"}}
	out := OrderMainLast(in)
	if out[0].Name != "a.gaia" || out[1].Name != "b.gaia" {
		t.Fatalf("order changed with no main.gaia present: %+v", out)
	}
}

func TestOrderMainLastMultipleMainNamedFiles(t *testing.T) {
	// Two files both literally named main.gaia in different directories
	// both move to the end, preserving their relative order.
	in := []Source{
		{Name: "a/main.gaia"},
		{Name: "x.gaia"},
		{Name: "b/main.gaia"},
	}
	out := OrderMainLast(in)
	if out[0].Name != "x.gaia" {
		t.Fatalf("non-main source did not move to front: %+v", out)
	}
	if out[1].Name != "a/main.gaia" || out[2].Name != "b/main.gaia" {
		t.Fatalf("main-named sources did not preserve relative order: %+v", out)
	}
}
