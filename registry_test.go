package alengine

import "testing"

func TestSetThreadContextWinsOverProcessGlobal(t *testing.T) {
	d := openTestDevice(t)
	global, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	local, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	defer SetThreadContext(nil)
	defer MakeContextCurrent(nil)

	if err := MakeContextCurrent(global); err != NoError {
		t.Fatalf("MakeContextCurrent failed: %v", err)
	}
	if err := SetThreadContext(local); err != NoError {
		t.Fatalf("SetThreadContext failed: %v", err)
	}
	if CurrentContext() != local {
		t.Error("CurrentContext should prefer the calling thread's thread-local context over the process-global one")
	}
	if err := SetThreadContext(nil); err != NoError {
		t.Fatalf("SetThreadContext(nil) failed: %v", err)
	}
	if CurrentContext() != global {
		t.Error("CurrentContext should fall back to the process-global context once the thread-local one is cleared")
	}
}

func TestContextDestroyClearsThreadLocalContext(t *testing.T) {
	d := openTestDevice(t)
	ctx, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	if err := SetThreadContext(ctx); err != NoError {
		t.Fatalf("SetThreadContext failed: %v", err)
	}
	ctx.Destroy()
	if GetThreadContext() != nil {
		t.Error("destroying a thread-local context should clear it from the thread-local slot")
	}
}
