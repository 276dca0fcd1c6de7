package hub_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/momentics/bufferhub-queue/api"
	"github.com/momentics/bufferhub-queue/hub"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newHeapQueue(t *testing.T, capacity int) *hub.ProducerQueue {
	t.Helper()
	q, err := hub.Create[api.BufferMetadata](
		hub.WithCapacity(capacity), hub.WithMemory(hub.MemoryHeap), hub.WithLogger(quiet))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestCreateUsesRecordSize(t *testing.T) {
	q := newHeapQueue(t, 4)
	if q.MetadataSize() != api.BufferMetadataSize {
		t.Fatalf("MetadataSize = %d, want %d", q.MetadataSize(), api.BufferMetadataSize)
	}
	if q.Capacity() != 4 {
		t.Fatalf("Capacity = %d, want 4", q.Capacity())
	}
	if q.Name() == "" {
		t.Fatal("service has no name")
	}
}

func TestCreateRejectsVariableSizeRecord(t *testing.T) {
	if _, err := hub.Create[map[string]int](); err == nil {
		t.Fatal("expected error for variable-size metadata type")
	}
}

func TestNewRejectsBadCapacity(t *testing.T) {
	for _, c := range []int{-1, hub.MaxCapacity + 1} {
		if _, err := hub.New(8, hub.WithCapacity(c)); err == nil {
			t.Errorf("capacity %d accepted", c)
		}
	}
}

func TestAllocateAndDetach(t *testing.T) {
	q := newHeapQueue(t, 2)
	slot, err := q.AllocateBuffer(100, 50, api.PixelFormatRGBA8888, api.UsageGPURead, 1)
	if err != nil {
		t.Fatalf("AllocateBuffer: %v", err)
	}
	p := q.GetBuffer(slot)
	if p == nil {
		t.Fatal("GetBuffer returned nil for allocated slot")
	}
	if p.Width() != 100 || p.Height() != 50 {
		t.Errorf("geometry %dx%d", p.Width(), p.Height())
	}
	if p.Stride() != 112 {
		t.Errorf("stride = %d, want 112", p.Stride())
	}
	if !p.Handle().Valid() {
		t.Error("allocated buffer has no handle")
	}
	if got := len(q.Buffer(slot).Pixels()); got != 112*50*4 {
		t.Errorf("pixel bytes = %d", got)
	}
	if q.Count() != 1 {
		t.Errorf("Count = %d, want 1", q.Count())
	}

	if err := q.DetachBuffer(slot); err != nil {
		t.Fatalf("DetachBuffer: %v", err)
	}
	if q.GetBuffer(slot) != nil {
		t.Error("slot still populated after detach")
	}
	if q.Count() != 0 {
		t.Errorf("Count = %d, want 0", q.Count())
	}
}

func TestDetachedSlotReusedLast(t *testing.T) {
	q := newHeapQueue(t, 3)
	first, _ := q.AllocateBuffer(8, 8, api.PixelFormatRGB565, 0, 1)
	if err := q.DetachBuffer(first); err != nil {
		t.Fatal(err)
	}
	var order []int
	for i := 0; i < 3; i++ {
		s, err := q.AllocateBuffer(8, 8, api.PixelFormatRGB565, 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		order = append(order, s)
	}
	if order[2] != first {
		t.Fatalf("allocation order %v, want detached slot %d last", order, first)
	}
}

func TestAllocateFullQueue(t *testing.T) {
	q := newHeapQueue(t, 1)
	if _, err := q.AllocateBuffer(8, 8, api.PixelFormatBlob, 0, 1); err != nil {
		t.Fatal(err)
	}
	_, err := q.AllocateBuffer(8, 8, api.PixelFormatBlob, 0, 1)
	if api.StatusOf(err) != api.StatusNoSpace {
		t.Fatalf("status = %v, want %v", api.StatusOf(err), api.StatusNoSpace)
	}
}

func TestAllocateInvalidArguments(t *testing.T) {
	q := newHeapQueue(t, 1)
	_, err := q.AllocateBuffer(0, 8, api.PixelFormatRGBA8888, 0, 1)
	if !errors.Is(err, api.StatusInvalidArgument) {
		t.Fatalf("zero width: %v", err)
	}
	_, err = q.AllocateBuffer(8, 8, api.PixelFormatRGBA8888, 0, 0)
	if !errors.Is(err, api.StatusInvalidArgument) {
		t.Fatalf("zero slices: %v", err)
	}
}

func TestDetachErrors(t *testing.T) {
	q := newHeapQueue(t, 2)
	if got := api.StatusOf(q.DetachBuffer(5)); got != api.StatusInvalidArgument {
		t.Errorf("out of range: %v", got)
	}
	if got := api.StatusOf(q.DetachBuffer(0)); got != api.StatusNoEntry {
		t.Errorf("empty slot: %v", got)
	}
}

func TestAllocateOversizedBuffer(t *testing.T) {
	q := newHeapQueue(t, 2)
	cases := []struct {
		name          string
		width, height uint32
		format        api.PixelFormat
		slices        int
	}{
		{"stride wraps", 0xFFFFFFF8, 1, api.PixelFormatRGBA8888, 1},
		{"product wraps to zero", 1 << 31, 1 << 31, api.PixelFormatBlob, 1},
		{"product wraps negative", 1 << 30, 1 << 31, api.PixelFormatRGBA8888, 1},
		{"over limit", 1 << 15, 1 << 15, api.PixelFormatRGBA8888, 1},
		{"slices over limit", 1 << 12, 1 << 12, api.PixelFormatRGBAFP16, 1 << 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := q.AllocateBuffer(tc.width, tc.height, tc.format, 0, tc.slices)
			if slot != -1 || api.StatusOf(err) != api.StatusNoMemory {
				t.Fatalf("slot=%d err=%v, want -1 and no memory", slot, err)
			}
			if q.Count() != 0 {
				t.Fatalf("Count = %d after rejected allocation", q.Count())
			}
		})
	}

	// The free list is untouched: both slots still allocate in order.
	for want := 0; want < 2; want++ {
		slot, err := q.AllocateBuffer(16, 16, api.PixelFormatRGBA8888, 0, 1)
		if err != nil || slot != want {
			t.Fatalf("slot=%d err=%v, want %d", slot, err, want)
		}
	}
}

func TestAllocatorRejectsOversizedRegion(t *testing.T) {
	for _, kind := range []hub.MemoryKind{hub.MemoryHeap, hub.MemoryShared} {
		a := hub.NewAllocator(kind)
		if _, err := a.Alloc("too-big", hub.MaxBufferBytes+1); err == nil {
			t.Errorf("%s: oversized region accepted", kind)
		}
		if _, err := a.Alloc("negative", -1); err == nil {
			t.Errorf("%s: negative region accepted", kind)
		}
	}
}

func TestNewRejectsOversizedMetadata(t *testing.T) {
	if _, err := hub.New(hub.MaxBufferBytes+1, hub.WithLogger(quiet)); err == nil {
		t.Fatal("oversized metadata record accepted")
	}
}

type failingAllocator struct{}

func (failingAllocator) Alloc(string, int) (*hub.Region, error) {
	return nil, errors.New("no pages")
}

func TestAllocatorFailureReturnsSlot(t *testing.T) {
	q, err := hub.New(api.BufferMetadataSize, hub.WithCapacity(1),
		hub.WithAllocator(failingAllocator{}), hub.WithLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	_, err = q.AllocateBuffer(8, 8, api.PixelFormatRGBA8888, 0, 1)
	if api.StatusOf(err) != api.StatusNoMemory {
		t.Fatalf("status = %v, want no memory", api.StatusOf(err))
	}
	if q.Count() != 0 {
		t.Fatalf("slot leaked: Count = %d", q.Count())
	}
}

func TestMetadataRecord(t *testing.T) {
	q := newHeapQueue(t, 1)
	slot, err := q.AllocateBuffer(4, 4, api.PixelFormatRGBA8888, api.UsageCPUWriteOften, 2)
	if err != nil {
		t.Fatal(err)
	}
	p := q.Buffer(slot)
	if len(p.Metadata()) != api.BufferMetadataSize {
		t.Fatalf("metadata bytes = %d", len(p.Metadata()))
	}
	in := api.BufferMetadata{Timestamp: 42, FrameNumber: 7, Crop: api.Rect{Right: 4, Bottom: 4},
		Flags: api.MetadataFlagAutoTimestamp}
	if err := p.WriteMetadata(&in); err != nil {
		t.Fatal(err)
	}
	out, err := p.ReadMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if out != in || !out.AutoTimestamp() {
		t.Fatalf("read %+v, wrote %+v", out, in)
	}

	_ = q.DetachBuffer(slot)
	if _, err := p.ReadMetadata(); api.StatusOf(err) != api.StatusNoEntry {
		t.Fatalf("read after detach: %v", err)
	}
}

func TestClose(t *testing.T) {
	q := newHeapQueue(t, 2)
	if _, err := q.AllocateBuffer(8, 8, api.PixelFormatRGBA8888, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := q.AllocateBuffer(8, 8, api.PixelFormatRGBA8888, 0, 1); !errors.Is(err, api.ErrServiceClosed) {
		t.Fatalf("allocate after close: %v", err)
	}
}
