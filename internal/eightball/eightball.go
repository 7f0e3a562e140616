// Package eightball answers questions with engineering flavoured sayings
// and scrolls them across the panel.
package eightball

import "github.com/san-kum/matrixvis/internal/vis"

var Sayings = []string{
	"I'm Positive (with reference to Ground)",
	"The datasheet says Yes!",
	"Marketing have already sold this as true",
	"Hack, yeah!",
	"Confirmed by passing the test suite",
	"A couple of volts either way can't do any harm",
	"Confident enough for Engineering",
	"Low chance of letting the magic smoke out",
	"My Binary answer is 1",
	"I'm confident of success since the last patch",
	"Response timed out, Retry?",
	"404",
	"Checksum Failed",
	"Out of AI credits.",
	"Read the datasheet then ask a better question",
	"Sorry, it's only good in Development",
	"My Binary answer is 0",
	"It would be like pushing to Production on Friday afternoon",
	"Outlook not so good. And Excel also sucks!",
	"Hack, no!",
}

type EightBall struct {
	rng     vis.Random
	sayings []string
}

func New(rng vis.Random) *EightBall {
	return &EightBall{rng: rng, sayings: Sayings}
}

// Ask returns a random saying.
func (e *EightBall) Ask() string {
	return e.sayings[e.rng.Intn(len(e.sayings))]
}
