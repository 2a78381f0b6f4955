// Package humanize drives a page the way a person would: curved-enough
// pointer paths, imprecise click points, uneven typing cadence. Trajectory
// and timing generation are pure so they can be tested without a browser.
package humanize

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// InteractionError means a simulated interaction could not resolve its
// target. Callers decide whether that is fatal for the current step.
type InteractionError struct {
	Target string
	Err    error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("interaction with %s failed: %v", e.Target, e.Err)
}
func (e *InteractionError) Unwrap() error { return e.Err }

type Point struct {
	X float64
	Y float64
}

const (
	maxJitterPx = 3.0

	minKeyDelay = 50 * time.Millisecond
	maxKeyDelay = 250 * time.Millisecond

	thinkingChance   = 0.1
	minThinkingPause = 300 * time.Millisecond
	maxThinkingPause = 500 * time.Millisecond // added on top of minThinkingPause
)

// pointerPath interpolates 10-20 steps between from and to. Every
// intermediate point is perturbed by at most maxJitterPx per axis; the final
// point is exactly to, modelling overshoot-correction rather than a robotic
// straight line.
func pointerPath(from, to Point) []Point {
	steps := rand.Intn(11) + 10
	path := make([]Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := Point{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		}
		if i < steps {
			p.X += (rand.Float64() - 0.5) * 2 * maxJitterPx
			p.Y += (rand.Float64() - 0.5) * 2 * maxJitterPx
		}
		path = append(path, p)
	}
	path[len(path)-1] = to
	return path
}

// clickPoint picks a point within the inner 30-70% of the box. Edge clicks
// are statistically suspicious.
func clickPoint(box playwright.Rect) Point {
	return Point{
		X: box.X + box.Width*(0.3+rand.Float64()*0.4),
		Y: box.Y + box.Height*(0.3+rand.Float64()*0.4),
	}
}

func keyDelay() time.Duration {
	return minKeyDelay + time.Duration(rand.Int63n(int64(maxKeyDelay-minKeyDelay)))
}

func thinkingPause() (time.Duration, bool) {
	if rand.Float64() >= thinkingChance {
		return 0, false
	}
	return minThinkingPause + time.Duration(rand.Int63n(int64(maxThinkingPause))), true
}

func randomDelay(min, max time.Duration) time.Duration {
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// Simulator tracks the pointer position on one page across interactions.
type Simulator struct {
	page playwright.Page
	pos  Point
}

// NewSimulator binds a simulator to a page. The pointer starts at (100,100),
// a plausible resting position after page load.
func NewSimulator(page playwright.Page) *Simulator {
	return &Simulator{page: page, pos: Point{X: 100, Y: 100}}
}

// MovePointer walks the pointer to the target along a jittered path with
// randomized pacing. The pointer always lands exactly on the target.
func (s *Simulator) MovePointer(to Point) error {
	for _, p := range pointerPath(s.pos, to) {
		opts := playwright.MouseMoveOptions{Steps: playwright.Int(rand.Intn(3) + 1)}
		if err := s.page.Mouse().Move(p.X, p.Y, opts); err != nil {
			return &InteractionError{Target: "pointer", Err: err}
		}
		if rand.Float64() > 0.7 {
			time.Sleep(time.Duration(rand.Int63n(int64(50 * time.Millisecond))))
		}
	}
	s.pos = to
	return nil
}

// Click resolves the target's bounding box, moves the pointer into its inner
// area and issues a down/up pair separated by a randomized, never-zero delay.
func (s *Simulator) Click(target playwright.Locator) error {
	box, err := target.BoundingBox()
	if err != nil || box == nil {
		return &InteractionError{Target: "click target", Err: fmt.Errorf("bounding box unavailable: %w", err)}
	}

	if err := s.MovePointer(clickPoint(*box)); err != nil {
		return err
	}

	time.Sleep(randomDelay(100*time.Millisecond, 400*time.Millisecond))
	if err := s.page.Mouse().Down(); err != nil {
		return &InteractionError{Target: "click target", Err: err}
	}
	time.Sleep(randomDelay(50*time.Millisecond, 150*time.Millisecond))
	if err := s.page.Mouse().Up(); err != nil {
		return &InteractionError{Target: "click target", Err: err}
	}
	return nil
}

// TypeText types one character at a time with randomized inter-key delays and
// occasional longer thinking pauses.
func (s *Simulator) TypeText(target playwright.Locator, text string) error {
	if err := target.Focus(); err != nil {
		return &InteractionError{Target: "input", Err: err}
	}
	for _, r := range text {
		if err := s.page.Keyboard().Type(string(r)); err != nil {
			return &InteractionError{Target: "input", Err: err}
		}
		time.Sleep(keyDelay())
		if pause, ok := thinkingPause(); ok {
			time.Sleep(pause)
		}
	}
	return nil
}

// Jiggle makes a few idle pointer movements inside the viewport, used while
// waiting for content to settle.
func (s *Simulator) Jiggle() error {
	vp := s.page.ViewportSize()
	if vp == nil {
		return nil
	}
	for i := 0; i < 3; i++ {
		to := Point{
			X: float64(rand.Intn(vp.Width)),
			Y: float64(rand.Intn(vp.Height)),
		}
		if err := s.MovePointer(to); err != nil {
			return err
		}
		time.Sleep(randomDelay(100*time.Millisecond, 300*time.Millisecond))
	}
	return nil
}
