package main

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stroke struct {
	Key       VirtualKey
	Direction Direction
}

func down(k VirtualKey) stroke { return stroke{k, KeyDown} }
func up(k VirtualKey) stroke   { return stroke{k, KeyUp} }

// recordingInjector captures injected events in order.
type recordingInjector struct {
	mu      sync.Mutex
	strokes []stroke
}

func (r *recordingInjector) Inject(key VirtualKey, dir Direction) {
	r.mu.Lock()
	r.strokes = append(r.strokes, stroke{key, dir})
	r.mu.Unlock()
}

func (r *recordingInjector) take() []stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.strokes
	r.strokes = nil
	return out
}

// fakeKeyState reports the physical keys in the map as held.
type fakeKeyState map[VirtualKey]bool

func (f fakeKeyState) IsDown(key VirtualKey) bool { return f[key] }

func newTestRemapper(held ...VirtualKey) (*Remapper, *recordingInjector, fakeKeyState) {
	inj := &recordingInjector{}
	keys := fakeKeyState{}
	for _, k := range held {
		keys[k] = true
	}
	return NewRemapper(inj, keys), inj, keys
}

func press(k VirtualKey) KeyEvent   { return KeyEvent{Key: k, Direction: KeyDown} }
func release(k VirtualKey) KeyEvent { return KeyEvent{Key: k, Direction: KeyUp} }

func TestCapsLockBecomesLeftControl(t *testing.T) {
	r, inj, _ := newTestRemapper()

	assert.True(t, r.Handle(press(VKCapital)))
	assert.Equal(t, []stroke{down(VKLControl)}, inj.take())
	assert.True(t, r.CapsHeld())

	assert.True(t, r.Handle(release(VKCapital)))
	assert.Equal(t, []stroke{up(VKLControl)}, inj.take())
	assert.False(t, r.CapsHeld())
}

func TestCapsLockReleaseWithoutPress(t *testing.T) {
	r, inj, _ := newTestRemapper()

	assert.True(t, r.Handle(release(VKCapital)))
	assert.Equal(t, []stroke{up(VKLControl)}, inj.take())
	assert.False(t, r.CapsHeld())
}

func TestCapsLockRepeatedPress(t *testing.T) {
	r, inj, _ := newTestRemapper()

	// Auto-repeat delivers several downs before the single up.
	r.Handle(press(VKCapital))
	r.Handle(press(VKCapital))
	assert.True(t, r.CapsHeld())
	assert.Equal(t, []stroke{down(VKLControl), down(VKLControl)}, inj.take())

	r.Handle(release(VKCapital))
	assert.False(t, r.CapsHeld())
	assert.Equal(t, []stroke{up(VKLControl)}, inj.take())
}

func TestCapsLockPairsStayBalanced(t *testing.T) {
	r, inj, _ := newTestRemapper()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		// Interleave unrelated keys between the pairs.
		if rng.Intn(2) == 0 {
			r.Handle(press(VirtualKey(0x41 + rng.Intn(26))))
		}
		r.Handle(press(VKCapital))
		r.Handle(release(VKCapital))

		var downs, ups int
		for _, s := range inj.strokes {
			if s.Key != VKLControl {
				continue
			}
			if s.Direction == KeyDown {
				downs++
			} else {
				ups++
			}
		}
		require.Equal(t, downs, ups, "after pair %d", i)
	}
}

func TestLettersPassThroughWithoutControl(t *testing.T) {
	r, inj, _ := newTestRemapper()

	for _, k := range []VirtualKey{VKH, VKJ, VKK, VKL} {
		assert.False(t, r.Handle(press(k)), "%s down", k)
		assert.False(t, r.Handle(release(k)), "%s up", k)
	}
	assert.Empty(t, inj.take())
}

func TestOtherKeysPassThroughWithControl(t *testing.T) {
	r, inj, _ := newTestRemapper(VKLControl)

	// Ctrl+C and friends must reach applications untouched.
	for _, k := range []VirtualKey{0x43, 0x56, 0x41, 0x20} {
		assert.False(t, r.Handle(press(k)))
		assert.False(t, r.Handle(release(k)))
	}
	assert.Empty(t, inj.take())

	r.Handle(press(VKCapital))
	inj.take()
	assert.False(t, r.Handle(press(0x5A)))
	assert.Empty(t, inj.take())
}

func TestCapsLockHeldMapsLettersToArrows(t *testing.T) {
	testCases := []struct {
		letter VirtualKey
		arrow  VirtualKey
	}{
		{VKH, VKLeft},
		{VKJ, VKDown},
		{VKK, VKUp},
		{VKL, VKRight},
	}

	for _, tc := range testCases {
		t.Run(tc.letter.String(), func(t *testing.T) {
			r, inj, _ := newTestRemapper()
			r.Handle(press(VKCapital))
			inj.take()

			assert.True(t, r.Handle(press(tc.letter)))
			assert.True(t, r.Handle(release(tc.letter)))
			assert.Equal(t, []stroke{
				up(VKLControl),
				down(tc.arrow),
				up(tc.arrow),
				down(VKLControl),
			}, inj.take())
		})
	}
}

func TestPhysicalControlBracketing(t *testing.T) {
	testCases := []struct {
		name string
		held VirtualKey
	}{
		{"left", VKLControl},
		{"right", VKRControl},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, inj, _ := newTestRemapper(tc.held)

			assert.True(t, r.Handle(press(VKL)))
			assert.True(t, r.Handle(release(VKL)))
			assert.Equal(t, []stroke{
				up(tc.held),
				down(VKRight),
				up(VKRight),
				down(tc.held),
			}, inj.take())
		})
	}
}

func TestControlSourcePriority(t *testing.T) {
	// CapsLock wins over both physical keys, left wins over right.
	r, inj, keys := newTestRemapper(VKLControl, VKRControl)
	r.Handle(press(VKCapital))
	inj.take()
	assert.Equal(t, CtrlEmulated, r.ctrlSource())

	r.Handle(press(VKK))
	assert.Equal(t, []stroke{up(VKLControl), down(VKUp)}, inj.take())

	r.Handle(release(VKCapital))
	inj.take()
	assert.Equal(t, CtrlLeft, r.ctrlSource())

	keys[VKLControl] = false
	assert.Equal(t, CtrlRight, r.ctrlSource())

	keys[VKRControl] = false
	assert.Equal(t, CtrlNone, r.ctrlSource())
}

func TestArrowReleaseRepressesCurrentSource(t *testing.T) {
	r, inj, keys := newTestRemapper(VKRControl)

	r.Handle(press(VKH))
	assert.Equal(t, []stroke{up(VKRControl), down(VKLeft)}, inj.take())

	// The source is looked up again on release, so a swap between the
	// physical keys re-presses the one held now.
	keys[VKRControl] = false
	keys[VKLControl] = true
	assert.True(t, r.Handle(release(VKH)))
	assert.Equal(t, []stroke{up(VKLeft), down(VKLControl)}, inj.take())
}

func TestArrowReleaseAfterControlGone(t *testing.T) {
	r, inj, _ := newTestRemapper()
	r.Handle(press(VKCapital))
	r.Handle(press(VKJ))
	r.Handle(release(VKCapital))
	inj.take()

	// With no Control source left the release is an ordinary key.
	assert.False(t, r.Handle(release(VKJ)))
	assert.Empty(t, inj.take())
}

func TestInjectedKeysNeverRetrigger(t *testing.T) {
	injectable := []VirtualKey{VKLControl, VKRControl, VKLeft, VKDown, VKUp, VKRight}
	states := []struct {
		name string
		caps bool
		held []VirtualKey
	}{
		{"idle", false, nil},
		{"caps", true, nil},
		{"left", false, []VirtualKey{VKLControl}},
		{"right", false, []VirtualKey{VKRControl}},
		{"all", true, []VirtualKey{VKLControl, VKRControl}},
	}

	for _, st := range states {
		t.Run(st.name, func(t *testing.T) {
			r, inj, _ := newTestRemapper(st.held...)
			if st.caps {
				r.Handle(press(VKCapital))
			}
			inj.take()

			for _, k := range injectable {
				for _, ev := range []KeyEvent{press(k), release(k)} {
					ev.Injected = true
					assert.False(t, r.Handle(ev), "%s %s", ev.Key, ev.Direction)
				}
			}
			assert.Empty(t, inj.take())
		})
	}
}

func TestCapsLockNavigationScenario(t *testing.T) {
	r, inj, _ := newTestRemapper()

	for _, ev := range []KeyEvent{
		press(VKCapital),
		press(VKH),
		release(VKH),
		release(VKCapital),
	} {
		assert.True(t, r.Handle(ev), "%s %s", ev.Key, ev.Direction)
	}

	assert.Equal(t, []stroke{
		down(VKLControl),
		up(VKLControl),
		down(VKLeft),
		up(VKLeft),
		down(VKLControl),
		up(VKLControl),
	}, inj.take())
}

func TestConcurrentCapsLockHandling(t *testing.T) {
	const workers, rounds = 8, 100
	r, inj, _ := newTestRemapper()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				r.Handle(press(VKCapital))
				r.Handle(press(VKJ))
				r.Handle(release(VKJ))
				r.Handle(release(VKCapital))
			}
		}()
	}
	wg.Wait()

	counts := map[stroke]int{}
	for _, s := range inj.take() {
		require.Contains(t, []VirtualKey{VKLControl, VKDown}, s.Key)
		counts[s]++
	}

	// Every CapsLock transition injects one Control event of its own. The
	// other Control releases precede arrow presses one to one; re-presses
	// follow an arrow release only while CapsLock is still held.
	pairs := workers * rounds
	assert.Equal(t, pairs, counts[up(VKLControl)]-counts[down(VKDown)])
	assert.GreaterOrEqual(t, counts[down(VKLControl)], pairs)
	assert.LessOrEqual(t, counts[down(VKLControl)], pairs+counts[up(VKDown)])

	// Each worker's last CapsLock event is a release, so the last store wins.
	assert.False(t, r.CapsHeld())
}
