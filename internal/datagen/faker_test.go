//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"math"
	"testing"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestStreamIndependentOfOrder(t *testing.T) {
	forward := make([]int, 20)
	for i := 0; i < 20; i++ {
		forward[i] = Stream(42, "sales", i).Int(0, 1_000_000)
	}
	for i := 19; i >= 0; i-- {
		if got := Stream(42, "sales", i).Int(0, 1_000_000); got != forward[i] {
			t.Errorf("row %d: got %d in reverse order, %d in forward order", i, got, forward[i])
		}
	}
}

func TestDeriveSeedDistinguishesInputs(t *testing.T) {
	base := DeriveSeed(42, "sales", 0)
	tests := []struct {
		name string
		seed uint64
		str  string
		row  int
	}{
		{"different seed", 43, "sales", 0},
		{"different stream", 42, "delivery", 0},
		{"different row", 42, "sales", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if DeriveSeed(tt.seed, tt.str, tt.row) == base {
				t.Errorf("expected a different sub-seed")
			}
		})
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		v := f.Int(10, 20)
		if v < 10 || v > 20 {
			t.Errorf("Int(10, 20) returned %d, out of range", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		v := f.Float64(2.0, 15.0)
		if v < 2.0 || v > 15.0 {
			t.Errorf("Float64(2.0, 15.0) returned %f, out of range", v)
		}
	}
}

func TestChance(t *testing.T) {
	f := NewFakerWithSeed(7)
	if f.Chance(0) {
		t.Error("Chance(0) returned true")
	}
	for i := 0; i < 50; i++ {
		if !f.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}

func TestPoissonMean(t *testing.T) {
	f := NewFakerWithSeed(99)
	const n = 5000
	sum := 0
	for i := 0; i < n; i++ {
		v := f.Poisson(5)
		if v < 0 {
			t.Fatalf("negative Poisson draw %d", v)
		}
		sum += v
	}
	mean := float64(sum) / n
	if math.Abs(mean-5) > 0.3 {
		t.Errorf("Poisson(5) sample mean = %.3f, want close to 5", mean)
	}
	if f.Poisson(0) != 0 {
		t.Error("Poisson(0) should be 0")
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(3)
	items := []string{"Credit Card", "PayPal", "Debit Card", "Bank Transfer"}
	for i := 0; i < 50; i++ {
		v := Choose(f, items)
		found := false
		for _, item := range items {
			if v == item {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned %q, not in items", v)
		}
	}

	if v := Choose(f, []string{}); v != "" {
		t.Errorf("Choose on empty slice returned %q", v)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(11)
	items := []string{"a", "b", "c"}

	// A zero weight is never drawn.
	for i := 0; i < 200; i++ {
		if v := ChooseWeighted(f, items, []float64{0.5, 0, 0.5}); v == "b" {
			t.Fatal("ChooseWeighted drew an item with zero weight")
		}
	}

	counts := make(map[string]int)
	const n = 10000
	for i := 0; i < n; i++ {
		counts[ChooseWeighted(f, items, []float64{0.7, 0.2, 0.1})]++
	}
	if share := float64(counts["a"]) / n; math.Abs(share-0.7) > 0.03 {
		t.Errorf("share of a = %.3f, want close to 0.7", share)
	}

	if v := ChooseWeighted(f, []string{}, nil); v != "" {
		t.Errorf("ChooseWeighted on empty slice returned %q", v)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
