// Package envelope computes the ADSR curves drawn for the envelope chapter.
//
// Attack rises as 1 - e^(-5t), decay falls as S + (1-S)e^(-4t), sustain holds
// at S and release falls as S·e^(-4t), with t running 0..1 across each phase.
package envelope

import (
	"errors"
	"fmt"
	"math"
)

// Curve resolution per phase
const (
	AttackSteps  = 30
	DecaySteps   = 20
	ReleaseSteps = 20

	attackRate  = 5.0
	decayRate   = 4.0
	releaseRate = 4.0
)

// DefaultOvershootTarget is the level the attack aims past when overshoot is shown
const DefaultOvershootTarget = 1.2

// ADSR holds phase durations (in arbitrary time units) and the sustain level
type ADSR struct {
	AttackTime   float64 `json:"attack_time" yaml:"attack_time"`
	DecayTime    float64 `json:"decay_time" yaml:"decay_time"`
	SustainTime  float64 `json:"sustain_time" yaml:"sustain_time"`
	ReleaseTime  float64 `json:"release_time" yaml:"release_time"`
	SustainLevel float64 `json:"sustain_level" yaml:"sustain_level"`

	// ShowOvershoot aims the attack at OvershootTarget so it reaches full level sooner.
	// The curve is still clamped to 1.
	ShowOvershoot   bool    `json:"show_overshoot" yaml:"show_overshoot"`
	OvershootTarget float64 `json:"overshoot_target" yaml:"overshoot_target"`
}

// DefaultADSR returns the envelope shown in the envelope chapter
func DefaultADSR() ADSR {
	return ADSR{
		AttackTime:      0.15,
		DecayTime:       0.2,
		SustainTime:     0.3,
		ReleaseTime:     0.25,
		SustainLevel:    0.7,
		ShowOvershoot:   true,
		OvershootTarget: DefaultOvershootTarget,
	}
}

// Validate rejects negative durations, an empty envelope and sustain levels outside 0..1
func (a ADSR) Validate() error {
	var errs []error
	for name, v := range map[string]float64{
		"attack": a.AttackTime, "decay": a.DecayTime, "sustain": a.SustainTime, "release": a.ReleaseTime,
	} {
		if v < 0 || math.IsNaN(v) {
			errs = append(errs, fmt.Errorf("%s time must not be negative: %v", name, v))
		}
	}
	if a.TotalTime() <= 0 {
		errs = append(errs, errors.New("envelope has zero total duration"))
	}
	if a.SustainLevel < 0 || a.SustainLevel > 1 {
		errs = append(errs, fmt.Errorf("sustain level must be within 0..1: %v", a.SustainLevel))
	}
	return errors.Join(errs...)
}

// TotalTime is the summed duration of all four phases
func (a ADSR) TotalTime() float64 {
	return a.AttackTime + a.DecayTime + a.SustainTime + a.ReleaseTime
}

// Point is one vertex of the envelope polyline
type Point struct {
	Time  float64 `json:"time"`
	Level float64 `json:"level"`
}

// Segment is the polyline drawn for one phase
type Segment struct {
	Phase  string  `json:"phase"`
	Points []Point `json:"points"`
}

// Progress says how much of each phase is revealed, 0..1
type Progress struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

// Complete reveals every phase
var Complete = Progress{Attack: 1, Decay: 1, Sustain: 1, Release: 1}

// Drawing is a partially or fully revealed envelope
type Drawing struct {
	Segments []Segment `json:"segments"`
	// Head is the most recently drawn point, where the tracking dot sits
	Head Point `json:"head"`
}

// AttackLevel returns the attack curve at t in 0..1
func (a ADSR) AttackLevel(t float64) float64 {
	e := math.Exp(-attackRate * t)
	if !a.ShowOvershoot {
		return math.Min(1, 1-e)
	}

	target := a.OvershootTarget
	if target <= 0 {
		target = DefaultOvershootTarget
	}
	v := 1 - e*(1-target*(1-e))
	return math.Min(1, math.Min(target, v))
}

// DecayLevel returns the decay curve at t in 0..1
func (a ADSR) DecayLevel(t float64) float64 {
	return a.SustainLevel + (1-a.SustainLevel)*math.Exp(-decayRate*t)
}

// ReleaseLevel returns the release curve at t in 0..1
func (a ADSR) ReleaseLevel(t float64) float64 {
	return a.SustainLevel * math.Exp(-releaseRate*t)
}

// Draw returns the polylines revealed by p. A phase with zero progress
// contributes no segment; curved phases add one vertex per whole step revealed.
func (a ADSR) Draw(p Progress) Drawing {
	attackEnd := a.AttackTime
	decayEnd := attackEnd + a.DecayTime
	sustainEnd := decayEnd + a.SustainTime

	d := Drawing{Segments: []Segment{}}

	if p.Attack > 0 {
		seg := curve("attack", 0, 0, a.AttackTime, p.Attack, AttackSteps, a.AttackLevel)
		d.add(seg)
	}

	if p.Decay > 0 {
		seg := curve("decay", attackEnd, 1, a.DecayTime, p.Decay, DecaySteps, a.DecayLevel)
		d.add(seg)
	}

	if p.Sustain > 0 {
		end := Point{Time: decayEnd + clamp01(p.Sustain)*a.SustainTime, Level: a.SustainLevel}
		d.add(Segment{Phase: "sustain", Points: []Point{{Time: decayEnd, Level: a.SustainLevel}, end}})
	}

	if p.Release > 0 {
		seg := curve("release", sustainEnd, a.SustainLevel, a.ReleaseTime, p.Release, ReleaseSteps, a.ReleaseLevel)
		d.add(seg)
	}

	return d
}

func (d *Drawing) add(seg Segment) {
	d.Segments = append(d.Segments, seg)
	d.Head = seg.Points[len(seg.Points)-1]
}

func curve(phase string, start, startLevel, duration, progress float64, steps int, level func(float64) float64) Segment {
	revealed := int(math.Floor(clamp01(progress) * float64(steps)))

	points := make([]Point, 0, revealed+1)
	points = append(points, Point{Time: start, Level: startLevel})
	for i := 1; i <= revealed; i++ {
		t := float64(i) / float64(steps)
		points = append(points, Point{Time: start + t*duration, Level: level(t)})
	}
	return Segment{Phase: phase, Points: points}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
