package runtime

import (
	"math"
	"testing"
)

func TestNumberToString(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{5, "5"},
		{-42, "-42"},
		{123.456, "123.456"},
		{0.30000000000000004, "0.30000000000000004"},
		{1e21, "1e+21"},
		{123e20, "1.23e+22"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tc := range cases {
		if got := NumberToString(tc.in); got != tc.want {
			t.Fatalf("NumberToString(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStringToNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		nan  bool
	}{
		{"42", 42, false},
		{"  3.5\n", 3.5, false},
		{"", 0, false},
		{"0x1F", 31, false},
		{"-Infinity", math.Inf(-1), false},
		{"1e3", 1000, false},
		{"12px", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
		{"1_000", 0, true},
	}
	for _, tc := range cases {
		got := StringToNumber(tc.in)
		if tc.nan {
			if !math.IsNaN(got) {
				t.Fatalf("StringToNumber(%q) = %v, want NaN", tc.in, got)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("StringToNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestToStringArrays(t *testing.T) {
	inner := NewArray([]Value{Number(2), String("x")})
	arr := NewArray([]Value{Number(1), Null, Undefined, inner, Bool(true)})
	if got := ToString(arr); got != "1,,,2,x,true" {
		t.Fatalf("unexpected array string %q", got)
	}
	arr.Elements = append(arr.Elements, arr)
	if got := ToString(arr); got != "1,,,2,x,true," {
		t.Fatalf("unexpected cyclic array string %q", got)
	}
}

func TestEquality(t *testing.T) {
	arr := NewArray(nil)
	cases := []struct {
		a, b          Value
		loose, strict bool
	}{
		{Number(1), String("1"), true, false},
		{Null, Undefined, true, false},
		{Bool(true), Number(1), true, false},
		{String(""), Number(0), true, false},
		{arr, arr, true, true},
		{arr, NewArray(nil), false, false},
		{Number(math.NaN()), Number(math.NaN()), false, false},
		{Null, Number(0), false, false},
		{NewArray([]Value{Number(1), Number(2)}), String("1,2"), true, false},
	}
	for i, tc := range cases {
		if got := LooseEquals(tc.a, tc.b); got != tc.loose {
			t.Fatalf("case %d: LooseEquals = %v, want %v", i, got, tc.loose)
		}
		if got := StrictEquals(tc.a, tc.b); got != tc.strict {
			t.Fatalf("case %d: StrictEquals = %v, want %v", i, got, tc.strict)
		}
	}
	if !SameValueZero(Number(math.NaN()), Number(math.NaN())) {
		t.Fatalf("SameValueZero should treat NaN as equal")
	}
}

func TestArrayIndex(t *testing.T) {
	if i, ok := ArrayIndex(Number(3)); !ok || i != 3 {
		t.Fatalf("expected index 3, got %d %v", i, ok)
	}
	if i, ok := ArrayIndex(String("7")); !ok || i != 7 {
		t.Fatalf("expected index 7, got %d %v", i, ok)
	}
	for _, v := range []Value{Number(-1), Number(1.5), String("01"), String("a"), Undefined} {
		if _, ok := ArrayIndex(v); ok {
			t.Fatalf("expected %#v to be rejected", v)
		}
	}
}

func TestTruthyAndTypeOf(t *testing.T) {
	if Truthy(String("")) || Truthy(Number(0)) || Truthy(Null) || Truthy(Number(math.NaN())) {
		t.Fatalf("falsy values reported truthy")
	}
	if !Truthy(NewArray(nil)) || !Truthy(String("0")) {
		t.Fatalf("truthy values reported falsy")
	}
	if TypeOf(NewArray(nil)) != "object" || TypeOf(Undefined) != "undefined" {
		t.Fatalf("unexpected typeof results")
	}
	if ToInt32(Number(4294967297)) != 1 || ToInt32(Number(-1)) != -1 {
		t.Fatalf("unexpected ToInt32 wrap-around")
	}
}
