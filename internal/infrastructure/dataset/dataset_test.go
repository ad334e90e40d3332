package dataset

import "testing"

func sampleFixture() []Sample {
	return []Sample{
		{ID: 0, Input: []float64{0}, Target: 0},
		{ID: 1, Input: []float64{1}, Target: 0},
		{ID: 2, Input: []float64{2}, Target: 1},
		{ID: 3, Input: []float64{3}, Target: 1},
		{ID: 4, Input: []float64{4}, Target: 1},
	}
}

func TestSliceDataset_Batches(t *testing.T) {
	ds := NewSliceDataset(sampleFixture(), 2)

	batches := ds.Batches()
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[2].IDs) != 1 {
		t.Errorf("expected final partial batch of 1, got %d", len(batches[2].IDs))
	}

	// A second call restarts the pass identically.
	again := ds.Batches()
	if len(again) != 3 || again[0].IDs[0] != 0 {
		t.Error("expected repeated pass to restart from the beginning")
	}
}

func TestSliceDataset_BatchParallelism(t *testing.T) {
	ds := NewSliceDataset(sampleFixture(), 3)

	for _, batch := range ds.Batches() {
		if len(batch.IDs) != len(batch.Inputs) || len(batch.IDs) != len(batch.Targets) {
			t.Errorf("expected parallel batch slices, got %d ids, %d inputs, %d targets",
				len(batch.IDs), len(batch.Inputs), len(batch.Targets))
		}
	}
}

func TestSliceDataset_ByClass(t *testing.T) {
	ds := NewSliceDataset(sampleFixture(), 10)

	view := ds.ByClass(1)
	if view.Size() != 3 {
		t.Fatalf("expected 3 samples of class 1, got %d", view.Size())
	}

	batch := view.Batches()[0]
	for i, target := range batch.Targets {
		if target != 1 {
			t.Errorf("expected class 1 at position %d, got %d", i, target)
		}
	}
	if batch.IDs[0] != 2 || batch.IDs[2] != 4 {
		t.Errorf("expected source order preserved, got %v", batch.IDs)
	}
}

func TestSliceDataset_ByIdentifiers(t *testing.T) {
	ds := NewSliceDataset(sampleFixture(), 10)

	view := ds.ByIdentifiers([]int{4, 0, 2})
	if view.Size() != 3 {
		t.Fatalf("expected 3 samples, got %d", view.Size())
	}

	batch := view.Batches()[0]
	want := []int{4, 0, 2}
	for i, id := range batch.IDs {
		if id != want[i] {
			t.Errorf("expected identifier order %v, got %v", want, batch.IDs)
			break
		}
	}

	// Unknown identifiers are skipped.
	if ds.ByIdentifiers([]int{99}).Size() != 0 {
		t.Error("expected unknown identifier to yield empty view")
	}
}

func TestSliceDataset_Empty(t *testing.T) {
	ds := NewSliceDataset(nil, 4)

	if ds.Size() != 0 {
		t.Errorf("expected empty dataset, got size %d", ds.Size())
	}
	if batches := ds.Batches(); batches != nil {
		t.Errorf("expected nil batches, got %d", len(batches))
	}
}

func TestSyntheticSamples(t *testing.T) {
	config := SyntheticConfig{
		ClassLo:        0,
		ClassHi:        2,
		PerClass:       10,
		InputDimension: 4,
		Seed:           7,
	}

	samples := SyntheticSamples(config)
	if len(samples) != 20 {
		t.Fatalf("expected 20 samples, got %d", len(samples))
	}
	for i, sample := range samples {
		if sample.ID != i {
			t.Errorf("expected sequential ids, got %d at %d", sample.ID, i)
		}
		if len(sample.Input) != 4 {
			t.Errorf("expected 4-dimensional input, got %d", len(sample.Input))
		}
	}
	if samples[0].Target != 0 || samples[19].Target != 1 {
		t.Errorf("expected class blocks 0 then 1, got %d and %d", samples[0].Target, samples[19].Target)
	}

	// Same seed, same data.
	again := SyntheticSamples(config)
	if again[3].Input[0] != samples[3].Input[0] {
		t.Error("expected seeded generation to be reproducible")
	}
}
