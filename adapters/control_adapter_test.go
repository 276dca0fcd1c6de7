package adapters_test

import (
	"testing"

	"github.com/momentics/bufferhub-queue/adapters"
	"github.com/momentics/bufferhub-queue/control"
)

func TestControlAdapterBasic(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	if cfg := ctrl.GetConfig(); len(cfg) != 0 {
		t.Fatalf("expected empty config on init, got %v", cfg)
	}
	called := false
	ctrl.OnReload(func() { called = true })
	if err := ctrl.SetConfig(map[string]any{control.KeyDequeueTimeout: 10}); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("reload hook not called")
	}
	if d, ok := ctrl.ConfigStore().Duration(control.KeyDequeueTimeout); !ok || d.Milliseconds() != 10 {
		t.Errorf("timeout = %v, %v", d, ok)
	}

	ctrl.Metrics().Add("allocations", 2)
	ctrl.RegisterDebugProbe("slots", func() any { return 1 })
	stats := ctrl.Stats()
	if stats["allocations"] != int64(2) {
		t.Errorf("allocations = %v", stats["allocations"])
	}
	if stats["debug.slots"] != 1 {
		t.Errorf("debug.slots = %v", stats["debug.slots"])
	}
	if _, ok := stats["debug.platform.cpus"]; !ok {
		t.Error("platform probe missing")
	}
}
