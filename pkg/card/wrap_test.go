package card

import (
	"strings"
	"testing"
)

func TestWrapEmpty(t *testing.T) {
	face := goRegularFace(t, 40)
	for _, text := range []string{"", "   ", "\n\t "} {
		lines := Wrap(face, text, 500)
		if len(lines) != 1 || lines[0] != "" {
			t.Errorf("Wrap(%q) = %q, want one empty line", text, lines)
		}
	}
}

func TestWrapSingleWord(t *testing.T) {
	lines := Wrap(goRegularFace(t, 40), "passo", 500)
	if len(lines) != 1 || lines[0] != "passo" {
		t.Errorf("Wrap = %q, want [passo]", lines)
	}
}

func TestWrapFitsWidth(t *testing.T) {
	face := goRegularFace(t, 48)
	texts := []string{
		"A jornada de mil milhas começa com um único passo.",
		"Conhece-te a ti mesmo.",
		"O que sabemos é uma gota; o que ignoramos é um oceano. A vida é curta, a arte é longa.",
		"um dois três quatro cinco seis sete oito nove dez onze doze treze catorze quinze",
	}
	widths := []int{120, 300, 600, 880}

	for _, text := range texts {
		for _, maxWidth := range widths {
			lines := Wrap(face, text, maxWidth)
			for _, line := range lines {
				w, _ := Measure(face, line)
				if w > maxWidth && strings.Contains(line, " ") {
					t.Errorf("maxWidth %d: line %q is %dpx wide", maxWidth, line, w)
				}
			}
		}
	}
}

func TestWrapReconstructsText(t *testing.T) {
	face := goRegularFace(t, 48)
	texts := []string{
		"A jornada de mil milhas começa com um único passo.",
		"  espaços   extras\tentre\npalavras  ",
		"palavra",
	}

	for _, text := range texts {
		for _, maxWidth := range []int{0, 100, 400, 10000} {
			lines := Wrap(face, text, maxWidth)
			got := strings.Join(lines, " ")
			want := strings.Join(strings.Fields(text), " ")
			if got != want {
				t.Errorf("Wrap(%q, %d) rejoined = %q, want %q", text, maxWidth, got, want)
			}
		}
	}
}

func TestWrapLongWordNotSplit(t *testing.T) {
	face := goRegularFace(t, 110)
	word := strings.Repeat("m", 60)
	lines := Wrap(face, "antes "+word+" depois", 840)

	want := []string{"antes", word, "depois"}
	if len(lines) != len(want) {
		t.Fatalf("Wrap = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if w, _ := Measure(face, word); w <= 840 {
		t.Errorf("long word is %dpx, expected it to overflow 840", w)
	}
}

func TestWrapGreedy(t *testing.T) {
	face := goRegularFace(t, 40)
	text := "a b c d e f g h"
	wide, _ := Measure(face, text)

	if lines := Wrap(face, text, wide); len(lines) != 1 {
		t.Errorf("width %d: got %d lines, want 1", wide, len(lines))
	}

	// Each line must be unable to take the next line's first word.
	lines := Wrap(face, text, wide/3)
	for i := 0; i+1 < len(lines); i++ {
		next := strings.Fields(lines[i+1])[0]
		if w, _ := Measure(face, lines[i]+" "+next); w <= wide/3 {
			t.Errorf("line %q could have taken %q", lines[i], next)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	decomposed := "Tse\u0301"
	if got := normalizeText(decomposed); got != "Ts\u00e9" {
		t.Errorf("normalizeText(%q) = %q, want %q", decomposed, got, "Ts\u00e9")
	}
}
