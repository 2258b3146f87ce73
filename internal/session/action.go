// Package session provides the per-user interaction state machine: it binds
// a user's chosen action to their next audio upload, with a time-to-live.
package session

// Action represents the pipeline action a user has selected.
type Action string

const (
	// ActionAnalyze computes a quality report without producing audio.
	ActionAnalyze Action = "analyze"
	// ActionEnhance runs the enhancement chain and reports before/after.
	ActionEnhance Action = "enhance"
	// ActionMonoToStereo duplicates a mono signal into two channels.
	ActionMonoToStereo Action = "mono_to_stereo"
	// ActionFullProcess runs stereo conversion plus enhancement.
	ActionFullProcess Action = "full_process"
	// ActionHelp returns the static help text; it never creates a session.
	ActionHelp Action = "help"
)

// IsValid returns true if the action is one of the known kinds.
func (a Action) IsValid() bool {
	switch a {
	case ActionAnalyze, ActionEnhance, ActionMonoToStereo, ActionFullProcess, ActionHelp:
		return true
	}
	return false
}

// Selectable lists the actions that can be bound to an upload.
// Help is excluded: it is answered immediately and holds no state.
func Selectable() []Action {
	return []Action{ActionAnalyze, ActionEnhance, ActionMonoToStereo, ActionFullProcess}
}
