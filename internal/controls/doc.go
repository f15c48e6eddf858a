// Package controls implements the concrete interactive controls: a push
// button, a linear slider, and two hinged doors (one interpolated, one driven
// by a physics hinge).
//
// Every control embeds a *controllable.Base for its value events and limit
// state, and is advanced by the host once per frame through Update and
// EndOfFrame. Touch and grab notifications arrive through the Toucher and
// Grabber interfaces; host-driven drags through DragTo.
package controls
