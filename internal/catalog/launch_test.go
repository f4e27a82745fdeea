package catalog

import (
	"errors"
	"math/rand/v2"
	"testing"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestRandom(t *testing.T) {
	entries := sampleEntries()
	got, err := Random(entries, fixedRand(2))
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != entries[2].Name {
		t.Errorf("Random = %q, want %q", got.Name, entries[2].Name)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		e, err := Random(entries, rng)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := Find(entries, e.Name); !ok {
			t.Fatalf("Random returned unknown entry %q", e.Name)
		}
	}
}

func TestRandom_Empty(t *testing.T) {
	if _, err := Random(nil, fixedRand(0)); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestLaunchFor(t *testing.T) {
	external := LaunchFor(Entry{Name: "Ice Battle", URL: "https://g/ice", NewTab: true})
	if !external.External || external.URL != "https://g/ice" {
		t.Errorf("LaunchFor(newtab) = %+v", external)
	}
	embedded := LaunchFor(Entry{Name: "Blocky Run", URL: "https://g/blocky"})
	if embedded.External {
		t.Errorf("LaunchFor(embedded) = %+v", embedded)
	}
}

func TestFind(t *testing.T) {
	if e, ok := Find(sampleEntries(), "blocky run"); !ok || e.Name != "Blocky Run" {
		t.Errorf("Find = %+v, %v", e, ok)
	}
	if _, ok := Find(sampleEntries(), "blocky"); ok {
		t.Error("Find should match whole names only")
	}
}
