package interrupt

import "testing"

func TestNew_ProcessesAccessorNonNil(t *testing.T) {
	h := New(nil)
	if h.Processes() == nil {
		t.Fatal("Processes() = nil, want an initialized ProcessRegistry")
	}
}

func TestInstall_StopCancelsWatchingWithoutSignal(t *testing.T) {
	h := New(nil)
	ctx, stop := h.Install()
	stop()

	select {
	case <-ctx.Done():
		t.Error("ctx.Done() fired without any interrupt signal being delivered")
	default:
	}
}
