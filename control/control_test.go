package control_test

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/bufferhub-queue/control"
)

func TestConfigStoreDuration(t *testing.T) {
	cs := control.NewConfigStore()
	if _, ok := cs.Duration(control.KeyDequeueTimeout); ok {
		t.Fatal("unset key reported present")
	}
	cases := []struct {
		in   any
		want time.Duration
	}{
		{250 * time.Millisecond, 250 * time.Millisecond},
		{40, 40 * time.Millisecond},
		{"2s", 2 * time.Second},
		{time.Duration(-1), -1},
	}
	for _, tc := range cases {
		cs.SetConfigSync(map[string]any{control.KeyDequeueTimeout: tc.in})
		got, ok := cs.Duration(control.KeyDequeueTimeout)
		if !ok || got != tc.want {
			t.Errorf("Duration(%v) = %v, %v; want %v", tc.in, got, ok, tc.want)
		}
	}
	cs.SetConfigSync(map[string]any{control.KeyDequeueTimeout: "soon"})
	if _, ok := cs.Duration(control.KeyDequeueTimeout); ok {
		t.Error("unparseable duration accepted")
	}
}

func TestConfigStoreListeners(t *testing.T) {
	cs := control.NewConfigStore()
	calls := 0
	cs.OnReload(func() { calls++ })
	cs.SetConfigSync(map[string]any{control.KeyGenerationNumber: 3})
	if calls != 1 {
		t.Fatalf("sync listener calls = %d, want 1", calls)
	}
	if g, ok := cs.Uint32(control.KeyGenerationNumber); !ok || g != 3 {
		t.Fatalf("generation = %d, %v", g, ok)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	cs.OnReload(wg.Done)
	cs.SetConfig(map[string]any{"other": true})
	wg.Wait()

	snap := cs.GetSnapshot()
	snap["other"] = false
	if v, _ := cs.Get("other"); v != true {
		t.Error("snapshot aliases store")
	}
}

func TestMetricsCounters(t *testing.T) {
	mr := control.NewMetricsRegistry()
	mr.Add("allocs", 1)
	mr.Add("allocs", 2)
	mr.Set("gauge", 7)
	if got := mr.Counter("allocs"); got != 3 {
		t.Fatalf("allocs = %d, want 3", got)
	}
	if mr.UpdatedAt().IsZero() {
		t.Error("update time not recorded")
	}
	if snap := mr.GetSnapshot(); snap["gauge"] != 7 {
		t.Errorf("snapshot gauge = %v", snap["gauge"])
	}
}

func TestDebugProbes(t *testing.T) {
	dp := control.NewDebugProbes()
	control.RegisterPlatformProbes(dp)
	dp.RegisterProbe("slots", func() any { return 4 })
	state := dp.DumpState()
	if state["slots"] != 4 {
		t.Errorf("slots probe = %v", state["slots"])
	}
	if _, ok := state["platform.page_size"]; !ok {
		t.Error("platform probes missing")
	}
	dp.UnregisterProbe("slots")
	if _, ok := dp.DumpState()["slots"]; ok {
		t.Error("probe still registered")
	}
}
