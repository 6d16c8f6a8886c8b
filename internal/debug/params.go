package debug

// Params holds the scene-wide tweakables that are not a field of any scene
// object. Components that depend on a value subscribe to be told when it
// changes.
type Params struct {
	EnvMapIntensity float32

	listeners []func(*Params)
}

func NewParams(envMapIntensity float32) *Params {
	return &Params{EnvMapIntensity: envMapIntensity}
}

// Subscribe appends fn to the notification list.
func (p *Params) Subscribe(fn func(*Params)) {
	p.listeners = append(p.listeners, fn)
}

// Notify calls every subscriber in subscription order.
func (p *Params) Notify() {
	for _, fn := range p.listeners {
		fn(p)
	}
}
