package catalog

import (
	"reflect"
	"sync"
	"testing"
)

func TestNewView_ShowsEverything(t *testing.T) {
	v := NewView(sampleEntries())
	if v.Pending() {
		t.Error("new view should not be pending")
	}
	if got := len(v.Visible()); got != len(sampleEntries()) {
		t.Errorf("Visible() len = %d", got)
	}
	q, c := v.Typed()
	if q != "" || c != All {
		t.Errorf("Typed() = %q, %s", q, c)
	}
}

func TestView_TypeEchoesImmediately(t *testing.T) {
	v := NewView(sampleEntries())
	job := v.Type("bl")

	q, _ := v.Typed()
	if q != "bl" {
		t.Errorf("typed query = %q, want bl", q)
	}
	if !v.Pending() {
		t.Error("view should be pending before commit")
	}
	// The committed grid still shows the old result.
	if got := len(v.Visible()); got != len(sampleEntries()) {
		t.Errorf("Visible() changed before commit: %d", got)
	}

	if !v.Commit(job.Run()) {
		t.Fatal("newest job was not committed")
	}
	if v.Pending() {
		t.Error("view still pending after newest commit")
	}
	want := names(Filter(sampleEntries(), "bl", All))
	if got := names(v.Visible()); !reflect.DeepEqual(got, want) {
		t.Errorf("Visible() = %v, want %v", got, want)
	}
}

func TestView_StaleResultsDiscarded(t *testing.T) {
	v := NewView(sampleEntries())

	j1 := v.Type("b")
	j2 := v.Type("bl")
	j3 := v.Choose(Shooter)

	// Results arrive out of order.
	r3, r1, r2 := j3.Run(), j1.Run(), j2.Run()
	if !v.Commit(r3) {
		t.Fatal("newest result rejected")
	}
	if v.Commit(r1) || v.Commit(r2) {
		t.Error("superseded result was committed")
	}

	want := names(Filter(sampleEntries(), "bl", Shooter))
	if got := names(v.Visible()); !reflect.DeepEqual(got, want) {
		t.Errorf("Visible() = %v, want %v", got, want)
	}
}

func TestView_OlderCommitDoesNotClearPending(t *testing.T) {
	v := NewView(sampleEntries())
	j1 := v.Type("b")
	v.Type("bl")

	if v.Commit(j1.Run()) {
		t.Fatal("older job committed")
	}
	if !v.Pending() {
		t.Error("pending cleared by a superseded job")
	}
}

func TestView_Replace(t *testing.T) {
	v := NewView(nil)
	v.Type("tiny")
	job := v.Replace(sampleEntries())
	if !v.Commit(job.Run()) {
		t.Fatal("replace job not committed")
	}
	if got := names(v.Visible()); !reflect.DeepEqual(got, []string{"Tiny Tycoon"}) {
		t.Errorf("Visible() = %v", got)
	}
	if v.Total() != len(sampleEntries()) {
		t.Errorf("Total() = %d", v.Total())
	}
}

func TestView_ConcurrentJobsConverge(t *testing.T) {
	v := NewView(sampleEntries())
	inputs := []string{"b", "bl", "blo", "bloo", "bloon"}

	var jobs []Job
	for _, q := range inputs {
		jobs = append(jobs, v.Type(q))
	}

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			v.Commit(j.Run())
		}(j)
	}
	wg.Wait()

	if v.Pending() {
		t.Fatal("view pending after every job finished")
	}
	got := v.Committed()
	if got.Query != "bloon" {
		t.Errorf("committed query = %q, want bloon", got.Query)
	}
	want := names(Filter(sampleEntries(), "bloon", All))
	if !reflect.DeepEqual(names(got.Entries), want) {
		t.Errorf("committed = %v, want %v", names(got.Entries), want)
	}
}
