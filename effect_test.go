package alengine

import "testing"

func TestNewEffectStateDispatch(t *testing.T) {
	if _, ok := NewEffectState(EffectChorus).(*ChorusState); !ok {
		t.Error("NewEffectState(EffectChorus) should construct a *ChorusState")
	}
	if _, ok := NewEffectState(EffectEcho).(*EchoState); !ok {
		t.Error("NewEffectState(EffectEcho) should construct a *EchoState")
	}
	if got := NewEffectState(EffectNull); got != nil {
		t.Errorf("NewEffectState(EffectNull) should return nil, got %T", got)
	}
}

func TestNewEffectParamsPopulatesEveryVariantDefault(t *testing.T) {
	p := NewEffectParams()
	if p.Type != EffectNull {
		t.Errorf("NewEffectParams() should default to EffectNull, got %v", p.Type)
	}
	if p.Chorus != NewChorusParams() {
		t.Error("NewEffectParams() should pre-populate chorus defaults")
	}
	if p.Echo != NewEchoParams() {
		t.Error("NewEffectParams() should pre-populate echo defaults")
	}
}
