package debug

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLight struct {
	Intensity float32
	X, Y, Z   float32
}

type mode int

var modeOptions = []Option{
	{Label: "No", Value: 0},
	{Label: "Linear", Value: 1},
	{Label: "ACESFilmic", Value: 4},
}

func TestSetWritesTargetBeforeReturning(t *testing.T) {
	p := NewPanel()
	l := &fakeLight{Intensity: 3}
	b := p.Add(&l.Intensity, "lightIntensity").Range(0, 10).Step(0.001)

	for _, v := range []float32{0, 0.001, 2.5, 7.125, 10} {
		b.Set(float64(v))
		assert.Equal(t, v, l.Intensity)
		assert.Equal(t, float64(v), b.Value())
	}
}

func TestSetClampsToRange(t *testing.T) {
	p := NewPanel()
	var x float32
	b := p.Add(&x, "lightX").Range(-5, 5)

	b.Set(12)
	assert.Equal(t, float32(5), x)

	b.Set(-12)
	assert.Equal(t, float32(-5), x)
}

func TestSetIgnoresNaN(t *testing.T) {
	p := NewPanel()
	x := float32(1)
	b := p.Add(&x, "x").Range(0, 10)

	b.Set(math.NaN())

	assert.Equal(t, float32(1), x)
}

func TestOnChangeRunsAfterWrite(t *testing.T) {
	p := NewPanel()
	var intensity float32
	var seen []float32
	b := p.Add(&intensity, "envMapIntensity").Range(0, 10).
		OnChange(func() { seen = append(seen, intensity) })

	b.Set(5)

	assert.Equal(t, []float32{5}, seen)
}

func TestValueReflectsDirectWrites(t *testing.T) {
	p := NewPanel()
	var yaw float32
	b := p.Add(&yaw, "rotation").Range(-math.Pi, math.Pi)

	yaw = 1.25

	assert.Equal(t, 1.25, b.Value())
}

func TestSharedTargetLastRangeWinsForDisplay(t *testing.T) {
	p := NewPanel()
	var v float32
	first := p.Add(&v, "a").Range(0, 10)
	second := p.Add(&v, "b").Range(0, 1)

	lo, hi, ok := p.DisplayRange(&v)
	require.True(t, ok)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	first.Set(8)
	assert.Equal(t, 8.0, second.Value())
}

func TestEnumAcceptsOnlyOptions(t *testing.T) {
	p := NewPanel()
	m := mode(4)
	b := AddEnum(p, &m, "toneMapping", modeOptions)

	b.Set(1)
	assert.Equal(t, mode(1), m)
	assert.Equal(t, "Linear", b.Format())

	b.Set(3)
	assert.Equal(t, mode(1), m)
}

func TestLookupReturnsLatest(t *testing.T) {
	p := NewPanel()
	var a, b float32
	p.Add(&a, "dup")
	latest := p.Add(&b, "dup")

	assert.Same(t, latest, p.Lookup("dup"))
	assert.Nil(t, p.Lookup("missing"))
}

func TestParamsNotifyInOrder(t *testing.T) {
	params := NewParams(0.879)
	var calls []string
	params.Subscribe(func(*Params) { calls = append(calls, "first") })
	params.Subscribe(func(p *Params) {
		calls = append(calls, "second")
		assert.Equal(t, float32(0.879), p.EnvMapIntensity)
	})

	params.Notify()

	assert.Equal(t, []string{"first", "second"}, calls)
}
