// Package designer models the cake design wizard as an explicit state
// machine. The assistant layer is a pure presentation concern: it reads the
// current stage and offers only the actions legal for that stage, so no
// enabled/disabled flags need to live at call sites.
package designer

import "fmt"

// Stage is one step of the design wizard. The wizard holds no persisted
// state; the current stage travels with the client session.
type Stage string

const (
	StageWelcome       Stage = "welcome"
	StageFlavor        Stage = "flavor"
	StageSizeShape     Stage = "size_shape"
	StageStructure     Stage = "structure"
	StageCustomization Stage = "customization"
	StageReview        Stage = "review"
	StageComplete      Stage = "complete"
)

// transitions lists the legal successor stages for each stage. Review links
// back to every earlier step so a customer can revise a choice before
// completing the design.
var transitions = map[Stage][]Stage{
	StageWelcome:       {StageFlavor},
	StageFlavor:        {StageSizeShape, StageWelcome},
	StageSizeShape:     {StageStructure, StageWelcome},
	StageStructure:     {StageCustomization, StageWelcome},
	StageCustomization: {StageReview, StageWelcome},
	StageReview:        {StageFlavor, StageSizeShape, StageStructure, StageCustomization, StageComplete, StageWelcome},
	StageComplete:      {StageWelcome},
}

// actions lists the assistant actions offered at each stage.
var actions = map[Stage][]string{
	StageWelcome:       {"start_design"},
	StageFlavor:        {"choose_flavor"},
	StageSizeShape:     {"choose_size", "choose_shape"},
	StageStructure:     {"choose_layers", "choose_tiers"},
	StageCustomization: {"add_message", "pick_colors", "pick_decorations", "skip"},
	StageReview:        {"edit_step", "request_preview", "confirm_design"},
	StageComplete:      {"place_order", "start_over"},
}

// Valid reports whether s names a wizard stage.
func (s Stage) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from one stage to another is legal.
func CanTransition(from, to Stage) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next validates and applies a transition, returning the new stage.
func Next(from, to Stage) (Stage, error) {
	if !from.Valid() {
		return "", fmt.Errorf("unknown stage %q", from)
	}
	if !to.Valid() {
		return "", fmt.Errorf("unknown stage %q", to)
	}
	if !CanTransition(from, to) {
		return "", fmt.Errorf("cannot move from %q to %q", from, to)
	}
	return to, nil
}

// Actions returns the assistant actions legal for a stage. The returned slice
// must not be modified.
func Actions(s Stage) []string {
	return actions[s]
}

// Stages returns the wizard stages in their intended forward order.
func Stages() []Stage {
	return []Stage{
		StageWelcome,
		StageFlavor,
		StageSizeShape,
		StageStructure,
		StageCustomization,
		StageReview,
		StageComplete,
	}
}
