package alengine

import "testing"

func TestConeGainInsideInnerAngle(t *testing.T) {
	if g := ConeGain(10, 40, 80, 0.5, ConeScaleFull); g != 1 {
		t.Errorf("inside inner cone gain = %f, want 1", g)
	}
}

func TestConeGainOutsideOuterAngle(t *testing.T) {
	if g := ConeGain(170, 40, 80, 0.5, ConeScaleFull); g != 0.5 {
		t.Errorf("outside outer cone gain = %f, want outerGain 0.5", g)
	}
}

func TestConeGainInterpolatesBetween(t *testing.T) {
	g := ConeGain(30, 40, 80, 0, ConeScaleFull)
	if g <= 0 || g >= 1 {
		t.Errorf("gain between inner/outer cone = %f, want strictly between 0 and 1", g)
	}
}

func TestPanGainsMonoIsDirect(t *testing.T) {
	gains := PanGains(Mono, Vec3{0, 0, -1}, 0.75)
	if len(gains) != 1 || gains[0] != 0.75 {
		t.Errorf("mono pan gains = %v, want [0.75]", gains)
	}
}

func TestPanGainsStereoCenterIsBalanced(t *testing.T) {
	gains := PanGains(Stereo, Vec3{0, 0, -1}, 1)
	if len(gains) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(gains))
	}
	diff := gains[0] - gains[1]
	if diff < -0.05 || diff > 0.05 {
		t.Errorf("dead-center source should pan roughly equal, got L=%f R=%f", gains[0], gains[1])
	}
}

func TestPanGainsStereoHardLeftFavorsLeftChannel(t *testing.T) {
	gains := PanGains(Stereo, Vec3{-1, 0, 0}, 1)
	if gains[0] <= gains[1] {
		t.Errorf("hard-left source should favor the left channel, got L=%f R=%f", gains[0], gains[1])
	}
}

func TestPanGains51ExcludesLFE(t *testing.T) {
	gains := PanGains(Layout51, Vec3{0, 0, -1}, 1)
	if len(gains) != 6 {
		t.Fatalf("expected 6 channels, got %d", len(gains))
	}
	if gains[3] != 0 {
		t.Errorf("LFE channel (index 3) should never receive positional pan gain, got %f", gains[3])
	}
}
