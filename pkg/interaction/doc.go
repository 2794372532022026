// Package interaction translates input events into layer and viewport
// mutations.
//
// An input source (the terminal editor, the compose command, a test) builds
// typed events from whatever it receives and hands them to
// [Controller.Handle]. The controller owns the gesture state machine:
//
//	Idle --primary down on layer--> Candidate --move > threshold--> Dragging
//	  ^                                 |                               |
//	  +------------- up ----------------+------------- up --------------+
//
// A primary press focuses the layer immediately; its position only changes
// once the pointer has travelled more than [Options.DragThreshold] screen
// pixels. That keeps a click from nudging the layer. Drag deltas are
// divided by the viewport scale so the layer tracks the pointer at any
// zoom. Middle-button drags pan the viewport with raw screen deltas.
//
// Keyboard movement is in content units and ignores zoom. The store's
// keyboard-moving flag stays set while any movement key is held.
//
// A Controller is not safe for concurrent use.
package interaction
