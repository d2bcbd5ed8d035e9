package physics

import (
	"bytes"
	"errors"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/dynamo"
	"github.com/san-kum/wheelsim/internal/layout"
)

func newEngine(t testing.TB, seed int64, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	eng, err := New(layout.DefaultEuropean(), cfg, WithSeed(seed))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

func runToStop(t testing.TB, eng *Engine) []Telemetry {
	t.Helper()
	var trace []Telemetry
	limit := eng.Config().MaxSubSteps + 1
	for i := 0; eng.Rolling(); i++ {
		if i > limit {
			t.Fatal("engine still rolling past the sub-step cap")
		}
		eng.Step()
		trace = append(trace, eng.Telemetry())
	}
	return trace
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, dynamo.ErrInvalidLayout) {
		t.Errorf("nil layout: expected ErrInvalidLayout, got %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.SubSteps = 0
	if _, err := New(layout.DefaultEuropean(), cfg); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("bad config: expected ErrInvalidConfig, got %v", err)
	}
}

func TestReset_Quiescent(t *testing.T) {
	eng := newEngine(t, 1, nil)

	if eng.Rolling() {
		t.Error("fresh engine should not be rolling")
	}
	if eng.ResultNumber() != 0 {
		t.Errorf("expected default result 0, got %d", eng.ResultNumber())
	}

	eng.Launch(true)
	for i := 0; i < 30; i++ {
		eng.Step()
	}
	eng.Reset()

	tm := eng.Telemetry()
	if tm.Rolling || tm.HasResult || tm.W != 0 || tm.RV != 0 || tm.VZ != 0 {
		t.Errorf("reset left motion behind: %+v", tm)
	}
}

func TestLaunch_Ranges(t *testing.T) {
	eng := newEngine(t, 7, nil)
	cfg := eng.Config()

	for i := 0; i < 200; i++ {
		eng.Launch(true)
		tm := eng.Telemetry()

		if tm.R != eng.Layout().Rings.OuterR {
			t.Fatalf("launch radius %v, want outer ring", tm.R)
		}
		ball := dynamo.Rad2Deg(math.Abs(tm.W))
		if ball < cfg.BallMinDeg-1e-9 || ball > cfg.BallMaxDeg+1e-9 {
			t.Fatalf("ball speed %v deg/s outside launch range", ball)
		}
		rotor := dynamo.Rad2Deg(tm.WheelW)
		if rotor < cfg.RotorMinDeg-1e-9 || rotor > cfg.RotorMaxDeg+1e-9 {
			t.Fatalf("rotor speed %v deg/s outside launch range", rotor)
		}
		if tm.RV > -cfg.RVBase || tm.RV < -(cfg.RVBase+cfg.RVRange) {
			t.Fatalf("radial speed %v outside launch range", tm.RV)
		}
		if tm.RotorDeg != 0 || tm.Z != 0 || tm.VZ != 0 {
			t.Fatalf("launch should reset rotor and height: %+v", tm)
		}
	}
}

func TestLaunch_FixedSigns(t *testing.T) {
	eng := newEngine(t, 9, func(c *config.Config) {
		c.RotorFixed = true
		c.RotorFixedDeg = 30
	})
	for i := 0; i < 50; i++ {
		eng.Launch(false)
		tm := eng.Telemetry()
		if tm.W <= 0 {
			t.Fatalf("expected positive ball speed without sign randomization, got %v", tm.W)
		}
		if math.Abs(tm.WheelW-dynamo.Deg2Rad(30)) > 1e-12 {
			t.Fatalf("expected fixed rotor speed, got %v", tm.WheelW)
		}
	}
}

func TestDeterminism(t *testing.T) {
	a := newEngine(t, 42, nil)
	b := newEngine(t, 42, nil)
	a.Launch(true)
	b.Launch(true)

	ta := runToStop(t, a)
	tb := runToStop(t, b)

	if len(ta) != len(tb) {
		t.Fatalf("trajectory lengths differ: %d vs %d", len(ta), len(tb))
	}
	for i := range ta {
		if ta[i] != tb[i] {
			t.Fatalf("trajectories diverge at tick %d", i)
		}
	}
	if a.ResultNumber() != b.ResultNumber() {
		t.Errorf("results differ: %d vs %d", a.ResultNumber(), b.ResultNumber())
	}
}

// terminationSeeds is the sweep size for TestTermination. WHEELSIM_SEEDS
// raises it for slow runs, e.g. WHEELSIM_SEEDS=10000.
func terminationSeeds(t *testing.T) int {
	if v := os.Getenv("WHEELSIM_SEEDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			t.Fatalf("WHEELSIM_SEEDS=%q: want a positive integer", v)
		}
		return n
	}
	if testing.Short() {
		return 10
	}
	return 60
}

func TestTermination(t *testing.T) {
	seeds := terminationSeeds(t)
	seen := make(map[int]bool)
	for seed := int64(0); seed < int64(seeds); seed++ {
		eng := newEngine(t, seed, nil)
		eng.Launch(true)
		runToStop(t, eng)

		tm := eng.Telemetry()
		if tm.Rolling || !tm.HasResult {
			t.Fatalf("seed %d: did not stop", seed)
		}
		if tm.SubSteps > config.DefaultMaxSubSteps || tm.Forced {
			t.Fatalf("seed %d: hit the sub-step cap (%d sub-steps)", seed, tm.SubSteps)
		}
		n := eng.ResultNumber()
		if n < 0 || n > 36 {
			t.Fatalf("seed %d: result %d out of range", seed, n)
		}
		seen[n] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected varied outcomes across seeds, got %v", seen)
	}
	if seeds >= 1000 && len(seen) != 37 {
		t.Errorf("%d seeds reached only %d numbers", seeds, len(seen))
	}
}

func TestScenario_Seed123(t *testing.T) {
	eng := newEngine(t, 123, nil)
	eng.Launch(true)
	runToStop(t, eng)

	if eng.Rolling() {
		t.Fatal("expected rolling == false")
	}
	if n := eng.ResultNumber(); n < 0 || n > 36 {
		t.Errorf("result %d outside [0, 36]", n)
	}
}

func TestScenario_Seed321_Mid(t *testing.T) {
	eng := newEngine(t, 321, func(c *config.Config) { c.RequireMidForStop = true })
	eng.Launch(true)
	runToStop(t, eng)

	tm := eng.Telemetry()
	if !tm.InMid {
		t.Errorf("expected ball inside the mid-section band, offset %v", tm.Offset)
	}
}

func TestStop_NoSeparatorRest(t *testing.T) {
	l := layout.DefaultEuropean()
	for seed := int64(500); seed < 520; seed++ {
		eng := newEngine(t, seed, nil)
		eng.Launch(true)
		runToStop(t, eng)

		tm := eng.Telemetry()
		p := l.Pockets[tm.Pocket]
		d := dynamo.AngleDist(tm.Rel, p.Center)
		if d >= l.PocketHalfWidth()*eng.Config().MidFrac {
			t.Errorf("seed %d: ball %v rad from pocket centre", seed, d)
		}
		if p.Number != tm.Result {
			t.Errorf("seed %d: pocket %d holds %d, result %d", seed, tm.Pocket, p.Number, tm.Result)
		}
		if tm.W != 0 || tm.RV != 0 || tm.VZ != 0 {
			t.Errorf("seed %d: velocities not zeroed: %+v", seed, tm)
		}
		if tm.R != l.PocketR {
			t.Errorf("seed %d: radius %v not snapped to pocket ring", seed, tm.R)
		}
	}
}

func TestInvariants_DuringSpin(t *testing.T) {
	eng := newEngine(t, 77, nil)
	eng.Launch(true)
	rings := eng.Layout().Rings

	for _, tm := range runToStop(t, eng) {
		if tm.R < rings.ConeInnerR-1e-9 || tm.R > rings.OuterR+1e-9 {
			t.Fatalf("tick %d: r=%v outside rings", tm.Ticks, tm.R)
		}
		if tm.Theta < 0 || tm.Theta >= dynamo.TwoPi {
			t.Fatalf("tick %d: theta %v not wrapped", tm.Ticks, tm.Theta)
		}
		if tm.RotorDeg < 0 || tm.RotorDeg >= 360 {
			t.Fatalf("tick %d: rotor %v not wrapped", tm.Ticks, tm.RotorDeg)
		}
		if tm.Z < 0 {
			t.Fatalf("tick %d: ball below floor", tm.Ticks)
		}
	}
}

func TestSoftEnergyDecay(t *testing.T) {
	eng := newEngine(t, 2024, func(c *config.Config) { c.TiltSigma = 0 })
	eng.Launch(true)
	coneOuter := eng.Layout().Rings.ConeOuterR

	prev := eng.Telemetry()
	windows, ok := 0, 0
	for eng.Rolling() {
		eng.Step()
		cur := eng.Telemetry()
		if cur.InPocketBand || cur.R <= coneOuter {
			break
		}
		if prev.R > coneOuter {
			windows++
			if math.Abs(cur.W) <= math.Abs(prev.W) {
				ok++
			}
		}
		prev = cur
	}

	if windows < 10 {
		t.Fatalf("too few off-band windows: %d", windows)
	}
	if frac := float64(ok) / float64(windows); frac < 0.95 {
		t.Errorf("|w| grew in %.1f%% of off-band ticks", 100*(1-frac))
	}
}

func TestSoftRadialDecay(t *testing.T) {
	t.Run("windowed mean without conservative forces", func(t *testing.T) {
		eng := newEngine(t, 7, func(c *config.Config) {
			c.TiltSigma = 0
			c.BowlK = 0
			c.TrackSlopeDeg = 0
			c.ConeSlopeDeg = 0
		})
		eng.Launch(false)
		eng.r, eng.rV, eng.w, eng.wheelW = 340, -50, 0, 0

		const window = 10
		prevMean := math.Inf(1)
		for i := 0; i < 12; i++ {
			sum := 0.0
			for j := 0; j < window; j++ {
				eng.Step()
				sum += math.Abs(eng.rV)
			}
			mean := sum / window
			if mean > prevMean {
				t.Fatalf("window %d: mean |rV| grew from %v to %v", i, prevMean, mean)
			}
			prevMean = mean
			if eng.r < eng.Layout().Rings.TrackInnerR {
				t.Fatalf("ball left the track at r=%v", eng.r)
			}
		}
		if prevMean > 5 {
			t.Errorf("|rV| barely decayed: last window mean %v", prevMean)
		}
	})

	t.Run("damping opposes radial motion during a spin", func(t *testing.T) {
		eng := newEngine(t, 2024, nil)
		eng.Launch(true)
		tn := eng.tune.Load()
		checked := 0
		for eng.Rolling() {
			eng.Step()
			if eng.inPocketBand(tn) || eng.rV == 0 {
				continue
			}
			with := eng.radialAccel(tn)
			rV := eng.rV
			eng.rV = 0
			without := eng.radialAccel(tn)
			eng.rV = rV
			if (with-without)*rV > 0 {
				t.Fatalf("velocity term %v pushes along rV=%v", with-without, rV)
			}
			checked++
		}
		if checked == 0 {
			t.Fatal("no off-band samples")
		}
	})
}

func TestForcedStop_LogsAnomaly(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.MaxSubSteps = 40

	eng, err := New(layout.DefaultEuropean(), cfg, WithSeed(5), WithLogger(log.New(&buf, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	eng.Launch(true)
	runToStop(t, eng)

	tm := eng.Telemetry()
	if !tm.Forced {
		t.Error("expected forced stop")
	}
	if tm.SubSteps != 40 {
		t.Errorf("expected 40 sub-steps, got %d", tm.SubSteps)
	}
	if n := eng.ResultNumber(); n < 0 || n > 36 {
		t.Errorf("forced result %d out of range", n)
	}
	if !strings.Contains(buf.String(), "anomaly") {
		t.Errorf("expected anomaly log, got %q", buf.String())
	}
}

func TestStep_CarriesSeatedBall(t *testing.T) {
	eng := newEngine(t, 11, nil)
	eng.Launch(true)
	runToStop(t, eng)

	before := eng.Telemetry()
	for i := 0; i < 60; i++ {
		eng.Step()
	}
	after := eng.Telemetry()

	if after.Result != before.Result {
		t.Errorf("result changed after stop: %d -> %d", before.Result, after.Result)
	}
	if math.Abs(dynamo.AngleDelta(after.Rel, before.Rel)) > 1e-9 {
		t.Errorf("seated ball moved relative to rotor: %v -> %v", before.Rel, after.Rel)
	}
	if after.Ticks != before.Ticks {
		t.Error("ticks should not advance once stopped")
	}
}

func TestSetConfig(t *testing.T) {
	eng := newEngine(t, 3, nil)

	bad := eng.Config()
	bad.TiltTau = 0
	if err := eng.SetConfig(bad); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if eng.Config().TiltTau == 0 {
		t.Error("rejected config must not be applied")
	}

	cfg := eng.Config()
	if err := cfg.SetParam("track_slope_deg", 30); err != nil {
		t.Fatal(err)
	}
	if err := eng.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	want := cfg.Gravity * math.Sin(dynamo.Deg2Rad(30))
	if got := eng.tune.Load().SlopeTrack; math.Abs(got-want) > 1e-9 {
		t.Errorf("derived slope not refreshed: got %v want %v", got, want)
	}
}

func TestPosition(t *testing.T) {
	eng := newEngine(t, 1, nil)
	l := eng.Layout()

	x, y := eng.Position()
	if math.Abs(x-(l.CX+l.Rings.OuterR)) > 1e-9 || math.Abs(y-l.CY) > 1e-9 {
		t.Errorf("reset position (%v, %v)", x, y)
	}

	eng.Launch(true)
	tm := eng.Telemetry()
	x, y = eng.Position()
	if math.Abs(math.Hypot(x-l.CX, y-l.CY)-tm.R) > 1e-9 {
		t.Error("position radius disagrees with telemetry")
	}
}

func TestGaussian_Moments(t *testing.T) {
	var g gaussian
	src := dynamo.NewSeededSource(99)

	const n = 20000
	sum, sq := 0.0, 0.0
	for i := 0; i < n; i++ {
		v := g.next(src)
		sum += v
		sq += v * v
	}
	mean := sum / n
	variance := sq/n - mean*mean
	if math.Abs(mean) > 0.05 {
		t.Errorf("mean %v too far from 0", mean)
	}
	if math.Abs(variance-1) > 0.05 {
		t.Errorf("variance %v too far from 1", variance)
	}
}

type countingSource struct {
	dynamo.Source
	n int
}

func (c *countingSource) Float64() float64 {
	c.n++
	return c.Source.Float64()
}

func TestLaunch_DrawCount(t *testing.T) {
	tests := []struct {
		name      string
		fixed     bool
		randomize bool
		want      int
	}{
		{"random rotor, random sign", false, true, 5},
		{"random rotor, fixed sign", false, false, 4},
		{"fixed rotor, random sign", true, true, 4},
		{"fixed rotor, fixed sign", true, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &countingSource{Source: dynamo.NewSeededSource(1)}
			cfg := config.DefaultConfig()
			cfg.RotorFixed = tt.fixed
			eng, err := New(layout.DefaultEuropean(), cfg, WithSource(src))
			if err != nil {
				t.Fatal(err)
			}
			eng.Launch(tt.randomize)
			if src.n != tt.want {
				t.Errorf("expected %d draws, got %d", tt.want, src.n)
			}
		})
	}
}

func BenchmarkStep(b *testing.B) {
	eng := newEngine(b, 1, nil)
	eng.Launch(true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !eng.Rolling() {
			eng.Launch(true)
		}
		eng.Step()
	}
}

func BenchmarkSpin(b *testing.B) {
	eng := newEngine(b, 1, nil)
	for i := 0; i < b.N; i++ {
		eng.Launch(true)
		for eng.Rolling() {
			eng.Step()
		}
	}
}

func TestCapture_JitterStaysInMidBand(t *testing.T) {
	numbers := make([]int, 200)
	for i := range numbers {
		numbers[i] = i
	}
	fine, err := layout.Uniform(400, 400, layout.DefaultRings, numbers)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		layout *layout.Layout
	}{
		{"european", layout.DefaultEuropean()},
		{"fine pitch", fine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.JitterDeg = config.MaxJitterDeg * 0.99
			for seed := int64(0); seed < 200; seed++ {
				eng, err := New(tt.layout, cfg, WithSeed(seed))
				if err != nil {
					t.Fatal(err)
				}
				eng.theta = dynamo.TwoPi * eng.src.Float64()
				want := tt.layout.Pockets[tt.layout.Nearest(eng.rel())].Number
				eng.capture(eng.tune.Load())

				tm := eng.Telemetry()
				if !tm.InMid {
					t.Fatalf("seed %d: seated outside the mid band, offset %v", seed, tm.Offset)
				}
				if tm.Result != want {
					t.Fatalf("seed %d: result %d, nearest pocket holds %d", seed, tm.Result, want)
				}
			}
		})
	}
}
