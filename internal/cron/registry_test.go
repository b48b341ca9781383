package cron

import "testing"

func TestRegistryPreservesOrderAndSkipsNil(t *testing.T) {
	first := &testJob{name: "first"}
	second := &testJob{name: "second"}

	registry := NewRegistry(first, nil, second)
	registry.Register(nil)
	registry.Register(&testJob{name: "third"})

	jobs := registry.Jobs()
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if jobs[i].Name() != want {
			t.Fatalf("job %d is %q, want %q", i, jobs[i].Name(), want)
		}
	}
}
