package gesture

import (
	"testing"
	"time"
)

func testConfig() FireConfig {
	return FireConfig{
		UpwardThreshold: 900,
		MinSamples:      2,
		Cooldown:        300 * time.Millisecond,
	}
}

// feed pushes a sequence of valid velocity samples spaced 10ms apart and
// returns the number of fires emitted plus the time after the last sample.
func feed(d *FireDetector, start time.Time, samples []float64) (int, time.Time) {
	fires := 0
	now := start
	for _, vy := range samples {
		if d.Observe(vy, true, now) {
			fires++
		}
		now = now.Add(10 * time.Millisecond)
	}
	return fires, now
}

func TestFireDetector_QualifyingSequenceFiresOnce(t *testing.T) {
	d := NewFireDetector(testConfig())
	start := time.Now()

	fires, _ := feed(d, start, []float64{-1000, -1000, -1000, -1000})

	if fires != 1 {
		t.Errorf("fires = %d, want exactly 1 for a single sustained flick", fires)
	}
	if d.State() != Cooldown {
		t.Errorf("state = %v, want cooldown after firing", d.State())
	}
}

func TestFireDetector_SingleSampleIsNoise(t *testing.T) {
	d := NewFireDetector(testConfig())
	start := time.Now()

	fires, _ := feed(d, start, []float64{-1000, 0, -1000, 0, -1000})

	if fires != 0 {
		t.Errorf("fires = %d, want 0 for isolated threshold crossings", fires)
	}
}

func TestFireDetector_BelowThresholdNeverFires(t *testing.T) {
	d := NewFireDetector(testConfig())
	start := time.Now()

	fires, _ := feed(d, start, []float64{-800, -800, -800, -899, 500, -100})

	if fires != 0 {
		t.Errorf("fires = %d, want 0 below the threshold", fires)
	}
	if d.State() != Idle {
		t.Errorf("state = %v, want idle", d.State())
	}
}

func TestFireDetector_DownwardMotionIgnored(t *testing.T) {
	d := NewFireDetector(testConfig())
	start := time.Now()

	fires, _ := feed(d, start, []float64{1000, 1000, 1000})

	if fires != 0 {
		t.Errorf("fires = %d, want 0 for downward motion", fires)
	}
}

func TestFireDetector_CooldownSuppressesSecondGesture(t *testing.T) {
	d := NewFireDetector(testConfig())
	start := time.Now()

	fires, now := feed(d, start, []float64{-1000, -1000})
	if fires != 1 {
		t.Fatalf("fires = %d, want 1", fires)
	}

	// A second qualifying sequence well inside the 300ms cooldown.
	fires, _ = feed(d, now, []float64{-1500, -1500, -1500})
	if fires != 0 {
		t.Errorf("fires = %d, want 0 during cooldown", fires)
	}
}

func TestFireDetector_FiresAgainAfterCooldown(t *testing.T) {
	d := NewFireDetector(testConfig())
	start := time.Now()

	fires, now := feed(d, start, []float64{-1000, -1000})
	if fires != 1 {
		t.Fatalf("fires = %d, want 1", fires)
	}

	// Let the cooldown expire, then flick again.
	after := now.Add(301 * time.Millisecond)
	fires, _ = feed(d, after, []float64{-1000, -1000})
	if fires != 1 {
		t.Errorf("fires = %d, want exactly 1 after cooldown expiry", fires)
	}
}

func TestFireDetector_InvalidSampleDoesNotResetStreak(t *testing.T) {
	d := NewFireDetector(testConfig())
	now := time.Now()

	if d.Observe(-1000, true, now) {
		t.Fatal("should not fire on the first qualifying sample")
	}

	// Detection miss mid-gesture is noise, not a gesture abort.
	if d.Observe(0, false, now.Add(10*time.Millisecond)) {
		t.Fatal("should not fire on an invalid sample")
	}

	if !d.Observe(-1000, true, now.Add(20*time.Millisecond)) {
		t.Error("second qualifying sample should fire despite the miss between")
	}
}

func TestFireDetector_ValidSlowSampleResetsStreak(t *testing.T) {
	d := NewFireDetector(testConfig())
	now := time.Now()

	d.Observe(-1000, true, now)
	d.Observe(0, true, now.Add(10*time.Millisecond))

	if d.Observe(-1000, true, now.Add(20*time.Millisecond)) {
		t.Error("a valid below-threshold sample must reset the streak")
	}
}

func TestNewFireDetector_Defaults(t *testing.T) {
	d := NewFireDetector(FireConfig{})

	def := DefaultFireConfig()
	if d.cfg != def {
		t.Errorf("config = %+v, want defaults %+v", d.cfg, def)
	}
}

func TestFireState_String(t *testing.T) {
	tests := []struct {
		state FireState
		want  string
	}{
		{Idle, "idle"},
		{Armed, "armed"},
		{Cooldown, "cooldown"},
		{FireState(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("FireState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
