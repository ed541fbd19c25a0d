package diag

import (
	"testing"

	"floe/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagHonorsLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 4 {
		added := bag.Add(NewWarning(NameUnusedBinding, span(0, uint32(i), uint32(i)+1), "w"))
		if i < 2 && !added {
			t.Fatalf("diagnostic %d dropped below the limit", i)
		}
		if i >= 2 && added {
			t.Fatalf("diagnostic %d accepted above the limit", i)
		}
	}
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(NamePossiblyUnbound, span(1, 5, 6), "later file"))
	bag.Add(NewWarning(NamePossiblyUnbound, span(0, 9, 10), "later offset"))
	bag.Add(NewError(NameUnresolved, span(0, 2, 3), "early"))
	bag.Sort()

	items := bag.Items()
	if items[0].Message != "early" || items[1].Message != "later offset" || items[2].Message != "later file" {
		t.Fatalf("sort order wrong: %v, %v, %v", items[0].Message, items[1].Message, items[2].Message)
	}
}

func TestBagSortSeverityBreaksTies(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(NamePossiblyUnbound, span(0, 2, 3), "warn"))
	bag.Add(NewError(NameUnresolved, span(0, 2, 3), "err"))
	bag.Sort()
	if bag.Items()[0].Severity != SevError {
		t.Fatalf("errors should sort before warnings at the same span")
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(NameUnresolved, span(0, 2, 3), "dup"))
	bag.Add(NewError(NameUnresolved, span(0, 2, 3), "dup"))
	bag.Add(NewError(NameUnresolved, span(0, 4, 5), "other span"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("dedup kept %d, want 2", bag.Len())
	}
}

func TestBagMergeGrows(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(NameUnresolved, span(0, 1, 2), "a"))
	b := NewBag(1)
	b.Add(NewError(NameUnresolved, span(0, 3, 4), "b"))
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("merge should lift the limit, len = %d", a.Len())
	}
}

func TestHasErrorsAndWarnings(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevInfo, NameWildcardImport, span(0, 0, 1), "info"))
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("info-only bag reports errors or warnings")
	}
	bag.Add(NewWarning(NamePossiblyUnbound, span(0, 0, 1), "warn"))
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("warning not detected")
	}
	bag.Add(NewError(NameUnresolved, span(0, 0, 1), "err"))
	if !bag.HasErrors() {
		t.Fatalf("error not detected")
	}
}
