package source

import "testing"

func TestFileSetAddAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mod.py", []byte("x = 1\ny = 2\n"))

	f := fs.Get(id)
	if f.Path != "mod.py" {
		t.Fatalf("path = %q", f.Path)
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("virtual flag missing")
	}

	start, _ := fs.Resolve(Span{File: id, Start: 6, End: 7})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("resolve gave %d:%d, want 2:1", start.Line, start.Col)
	}
}

func TestFileSetLatestRevisionWins(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("mod.py", []byte("a = 1\n"))
	second := fs.AddVirtual("mod.py", []byte("a = 2\n"))

	if first == second {
		t.Fatalf("revisions must get distinct IDs")
	}
	latest, ok := fs.Lookup("mod.py")
	if !ok || latest != second {
		t.Fatalf("lookup returned %d, want %d", latest, second)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc\n"))
	if !changed {
		t.Fatalf("expected change")
	}
	if string(out) != "a\nb\rc\n" {
		t.Fatalf("got %q", out)
	}
}
