package rez

import "testing"

func TestCompileFilter_SingleStarStaysInSegment(t *testing.T) {
	t.Parallel()

	f, err := CompileFilter("*.txt")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}

	if !f.Match("a.txt") {
		t.Error("*.txt must match a.txt")
	}
	if f.Match("dir/a.txt") {
		t.Error("*.txt must not match dir/a.txt")
	}
	if f.Match(".txt") {
		t.Error("* requires at least one character")
	}
}

func TestCompileFilter_DoubleStarCrossesSegments(t *testing.T) {
	t.Parallel()

	f, err := CompileFilter("**.txt")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}

	if !f.Match("a.txt") {
		t.Error("**.txt must match a.txt")
	}
	if !f.Match("dir/a.txt") {
		t.Error("**.txt must match dir/a.txt")
	}
}

func TestCompileFilter_QuestionMark(t *testing.T) {
	t.Parallel()

	f, err := CompileFilter("a?c.txt")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}

	if !f.Match("abc.txt") {
		t.Error("a?c.txt must match abc.txt")
	}
	if f.Match("ac.txt") {
		t.Error("a?c.txt must not match ac.txt")
	}
	if f.Match("abbc.txt") {
		t.Error("a?c.txt must not match abbc.txt")
	}
	if f.Match("a/c.txt") {
		t.Error("? must not match the separator")
	}
}

func TestCompileFilter_TrailingStars(t *testing.T) {
	t.Parallel()

	single, err := CompileFilter("sounds/*")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}
	if !single.Match("sounds/boom.wav") {
		t.Error("sounds/* must match sounds/boom.wav")
	}
	if single.Match("sounds/sub/boom.wav") {
		t.Error("sounds/* must not cross segments")
	}

	double, err := CompileFilter("sounds/**")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}
	if !double.Match("sounds/boom.wav") {
		t.Error("sounds/** must match sounds/boom.wav")
	}
	if !double.Match("sounds/sub/boom.wav") {
		t.Error("sounds/** must cross segments")
	}
}

func TestCompileFilter_BackslashIsSeparator(t *testing.T) {
	t.Parallel()

	f, err := CompileFilter(`sounds\*.wav`)
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}

	if !f.Match("sounds/boom.wav") {
		t.Error(`sounds\*.wav must match sounds/boom.wav`)
	}
}

func TestCompileFilter_LiteralsAndEscapes(t *testing.T) {
	t.Parallel()

	f, err := CompileFilter("a+b.txt")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}
	if !f.Match("a+b.txt") {
		t.Error("a+b.txt must match itself")
	}
	if f.Match("aab.txt") {
		t.Error("+ must be literal, not a regex quantifier")
	}

	angle, err := CompileFilter("<attr>?.dat")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}
	if !angle.Match("<attr>1.dat") {
		t.Error("< and > must pass through unescaped")
	}

	anchored, err := CompileFilter("b.txt")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}
	if anchored.Match("ab.txt") || anchored.Match("b.txt2") {
		t.Error("patterns must be anchored at both ends")
	}
}

func TestFilterSet_EmptyMatchesEverything(t *testing.T) {
	t.Parallel()

	set, err := CompileFilters(nil)
	if err != nil {
		t.Fatalf("CompileFilters: %v", err)
	}

	if !set.Match("anything/at.all") {
		t.Error("empty filter set must match every path")
	}
}

func TestFilterSet_CombinesWithOr(t *testing.T) {
	t.Parallel()

	set, err := CompileFilters([]string{"*.txt", "sounds/**"})
	if err != nil {
		t.Fatalf("CompileFilters: %v", err)
	}

	if !set.Match("readme.txt") {
		t.Error("set must match readme.txt via *.txt")
	}
	if !set.Match("sounds/sub/boom.wav") {
		t.Error("set must match sounds/sub/boom.wav via sounds/**")
	}
	if set.Match("world/level1.dat") {
		t.Error("set must not match world/level1.dat")
	}
}

func TestCompileFilter_NonASCIILiteral(t *testing.T) {
	t.Parallel()

	f, err := CompileFilter("héllo*.dat")
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}

	if !f.Match("héllo1.dat") {
		t.Error("non-ASCII literals must match themselves")
	}
	if f.Match("hello1.dat") {
		t.Error("non-ASCII literals must not match other characters")
	}
}
