package remap

import (
	"strings"
	"testing"
)

func sampleTable() Table {
	return Table{
		"220": "木剑",
		"221": "铁剑",
	}
}

func TestTransformCell_KeepPrefix(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.KeepPrefix = true

	got := TransformCell("物品=220-221$1$80", sampleTable(), opts)
	if got != "物品=木剑-铁剑$1$80" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestTransformCell_StripPrefix(t *testing.T) {
	t.Parallel()

	got := TransformCell("物品=220-221$1$80", sampleTable(), DefaultOptions())
	if got != "木剑-铁剑$1$80" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestTransformCell_MissPassthrough(t *testing.T) {
	t.Parallel()

	table := Table{"220": "木剑"}
	got := TransformCell("220-999$1$80", table, DefaultOptions())
	if got != "木剑-999$1$80" {
		t.Fatalf("999 should pass through unchanged, got %q", got)
	}
}

func TestTransformCell_SeparatorModeIsExclusive(t *testing.T) {
	t.Parallel()

	// '&' 模式下 '|' 不是分隔符，应整体落在第二段里
	table := Table{"A": "甲", "B": "乙", "C": "丙"}
	got := TransformCell("A$1&B$2|C$3", table, DefaultOptions())
	if got != "甲$1&乙$2|C$3" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestTransformCell_PipeSeparator(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Separator = SeparatorPipe

	table := Table{"7075": "红宝石", "523": "蓝宝石"}
	got := TransformCell("7075|80072|523", table, opts)
	if got != "红宝石|80072|蓝宝石" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestTransformCell_SegmentCountPreserved(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"220$1&221$2&220$3",
		"220$1&&221$2",
		"&220$1&",
		"220-221",
		"",
	}
	for _, in := range inputs {
		got := TransformCell(in, sampleTable(), DefaultOptions())
		wantN := len(strings.Split(in, "&"))
		gotN := len(strings.Split(got, "&"))
		if in == "" {
			if got != "" {
				t.Fatalf("empty input must stay empty, got %q", got)
			}
			continue
		}
		if gotN != wantN {
			t.Fatalf("segment count changed for %q: want %d got %d (%q)", in, wantN, gotN, got)
		}
	}
}

func TestTransformCell_SuffixBytesUntouched(t *testing.T) {
	t.Parallel()

	in := "220$1$80$x-y$&221$ 99 "
	got := TransformCell(in, sampleTable(), DefaultOptions())

	inSegs := strings.Split(in, "&")
	gotSegs := strings.Split(got, "&")
	for i := range inSegs {
		_, inRest, inHas := strings.Cut(inSegs[i], "$")
		_, gotRest, gotHas := strings.Cut(gotSegs[i], "$")
		if inHas != gotHas || inRest != gotRest {
			t.Fatalf("suffix changed in segment %d: %q -> %q", i, inSegs[i], gotSegs[i])
		}
	}
}

func TestTransformCell_EmptyTableIsIdentity(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.KeepPrefix = true

	inputs := []string{
		"物品=220-221$1$80",
		"220$1&221$2|7$3",
		"no-dollar-segment",
		"$$$",
		"-&-",
		"乱七八糟 的输入&&",
	}
	for _, in := range inputs {
		if got := TransformCell(in, Table{}, opts); got != in {
			t.Fatalf("empty table must be identity: %q -> %q", in, got)
		}
	}
}

func TestTransformCell_IdempotentOnOwnOutput(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.KeepPrefix = true

	first := TransformCell("物品=220-221$1$80&999$2", sampleTable(), opts)
	second := TransformCell(first, Table{}, opts)
	if second != first {
		t.Fatalf("structure not idempotent: %q -> %q", first, second)
	}
}

func TestTransformCell_NoDollarSegment(t *testing.T) {
	t.Parallel()

	got := TransformCell("220-221", sampleTable(), DefaultOptions())
	if got != "木剑-铁剑" {
		t.Fatalf("unexpected output: %q", got)
	}
	if strings.Contains(got, "$") {
		t.Fatalf("output must not invent a '$': %q", got)
	}
}

func TestTable_LookupEmptyNameIsMiss(t *testing.T) {
	t.Parallel()

	table := Table{"220": ""}
	if got := TransformCell("220$1", table, DefaultOptions()); got != "220$1" {
		t.Fatalf("empty mapped name must behave as a miss, got %q", got)
	}
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options should validate: %v", err)
	}

	bad := Options{Separator: Separator(",")}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for separator %q", bad.Separator)
	}
}

func TestParseSeparator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    Separator
		wantErr bool
	}{
		{"", SeparatorAmp, false},
		{"&", SeparatorAmp, false},
		{"|", SeparatorPipe, false},
		{",", "", true},
		{"&&", "", true},
	}
	for _, tc := range cases {
		got, err := ParseSeparator(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseSeparator(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseSeparator(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}
